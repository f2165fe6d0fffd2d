package torrents

import (
	"context"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Akshay-Kumar/organizerr-client/internal/domain"
)

// Conn is the read side of one open push channel. *websocket.Conn satisfies
// it directly; tests substitute fakes.
type Conn interface {
	ReadMessage() (messageType int, data []byte, err error)
	Close() error
}

// Dialer opens push channels. Injecting it keeps the connection state
// machine testable without network sockets.
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Conn, error)
}

// Endpoint is where the push channel lives. Host and Port usually come from
// the REST origin; Secure selects wss.
type Endpoint struct {
	Secure bool
	Host   string
	Port   string
}

// URL builds the channel address for one connect attempt, embedding the
// session token captured at that moment.
func (e Endpoint) URL(token string) string {
	scheme := "ws"
	if e.Secure {
		scheme = "wss"
	}
	host := e.Host
	if e.Port != "" {
		host += ":" + e.Port
	}
	u := url.URL{
		Scheme:   scheme,
		Host:     host,
		Path:     "/ws/torrents",
		RawQuery: url.Values{"token": []string{token}}.Encode(),
	}
	return u.String()
}

type wsDialer struct {
	dialer *websocket.Dialer
}

// NewWSDialer returns the production websocket dialer.
func NewWSDialer() Dialer {
	return &wsDialer{
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

func (d *wsDialer) Dial(ctx context.Context, endpoint string) (Conn, error) {
	conn, resp, err := d.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, &domain.ChannelError{Err: err}
	}
	resp.Body.Close()
	return conn, nil
}
