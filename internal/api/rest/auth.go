package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/Akshay-Kumar/organizerr-client/internal/domain"
)

type authResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
}

// Login exchanges credentials for a session token. The auth endpoint takes
// a form-encoded body and answers with either `token` or `access_token`.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{
		"username": []string{username},
		"password": []string{password},
	}
	var out authResponse
	err := c.do(ctx, "login", http.MethodPost, "/auth/login", nil,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", &out)
	if err != nil {
		return "", err
	}
	token := out.Token
	if token == "" {
		token = out.AccessToken
	}
	if token == "" {
		return "", &domain.TransportError{Op: "login", Err: errors.New("no token in response")}
	}
	return token, nil
}

// Register creates a new account. Callers typically follow with Login.
func (c *Client) Register(ctx context.Context, username, password string) error {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return &domain.TransportError{Op: "register", Err: err}
	}
	return c.do(ctx, "register", http.MethodPost, "/auth/register", nil,
		bytes.NewReader(body), "application/json", nil)
}
