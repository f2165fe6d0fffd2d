// Package torrents keeps a local torrent list in sync with the backend. It
// owns the push-channel lifecycle (connect, reconnect after a fixed delay),
// reconciles full snapshots into the authoritative view, and dispatches
// stop/resume/delete commands whose effects arrive back through the stream.
package torrents

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Akshay-Kumar/organizerr-client/internal/domain"
	"github.com/Akshay-Kumar/organizerr-client/internal/metrics"
)

const (
	defaultReconnectDelay = 2 * time.Second
	dialTimeout           = 10 * time.Second
	fetchTimeout          = 10 * time.Second
)

var (
	// ErrNotActivated is returned by commands issued while no session is active.
	ErrNotActivated = errors.New("sync manager is not activated")
	// ErrNoPendingDelete is returned by ConfirmDelete when nothing is held.
	ErrNoPendingDelete = errors.New("no delete is pending confirmation")
)

// Backend is the slice of the REST client the manager needs.
type Backend interface {
	List(ctx context.Context) ([]domain.TorrentRecord, error)
	Stop(ctx context.Context, id int64, token string) error
	Resume(ctx context.Context, id int64, token string) error
	Delete(ctx context.Context, id int64, token string) error
}

type Config struct {
	Backend  Backend
	Dialer   Dialer
	Endpoint Endpoint
	// ReconnectDelay is the fixed wait before retrying a closed channel.
	// Zero means the 2 s default. Retries are unbounded and not backed
	// off; availability is preferred over backoff discipline here.
	ReconnectDelay time.Duration
	Logger         *slog.Logger
}

// Manager is the synchronization layer. All mutable state lives behind one
// mutex; the channel reader, the reconnect timer and command callers
// serialize through it, so a close event racing a connect attempt can never
// leave two open channels or two pending reconnects.
type Manager struct {
	backend        Backend
	dialer         Dialer
	endpoint       Endpoint
	reconnectDelay time.Duration
	logger         *slog.Logger

	mu    sync.Mutex
	gen   uint64 // bumped on every Activate/Deactivate; stale events carry an old value
	token string
	state ConnState
	conn  Conn
	retry *time.Timer

	view          []domain.TorrentRecord
	live          map[int64]domain.LiveStats
	pendingDelete int64 // 0 = no delete awaiting confirmation
}

func NewManager(cfg Config) *Manager {
	delay := cfg.ReconnectDelay
	if delay <= 0 {
		delay = defaultReconnectDelay
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = NewWSDialer()
	}
	return &Manager{
		backend:        cfg.Backend,
		dialer:         dialer,
		endpoint:       cfg.Endpoint,
		reconnectDelay: delay,
		logger:         logger,
		state:          StateDisconnected,
	}
}

// Activate starts a session with the given token: one authoritative fetch
// to seed the view, then the push channel. A second Activate supersedes the
// first. An empty token deactivates.
func (m *Manager) Activate(token string) {
	if token == "" {
		m.Deactivate()
		return
	}
	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.token = token
	m.cancelRetryLocked()
	m.closeConnLocked()
	m.setStateLocked(StateConnecting)
	m.mu.Unlock()

	m.logger.Info("sync session activated")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		m.refresh(ctx, gen)
	}()
	go m.connect(gen)
}

// Deactivate ends the session: the channel closes, any pending reconnect is
// cancelled and late REST responses are discarded. The last view is kept so
// a consumer sees stale-but-consistent data rather than an empty flash.
func (m *Manager) Deactivate() {
	m.mu.Lock()
	m.gen++
	m.token = ""
	m.pendingDelete = 0
	m.live = nil
	m.cancelRetryLocked()
	m.closeConnLocked()
	m.setStateLocked(StateDisconnected)
	m.mu.Unlock()

	m.logger.Info("sync session deactivated")
}

// View returns a copy of the current authoritative torrent list.
func (m *Manager) View() []domain.TorrentRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.TorrentRecord, len(m.view))
	copy(out, m.view)
	return out
}

// ConnState returns the current push channel state.
func (m *Manager) ConnState() ConnState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SetLiveStats replaces the externally supplied telemetry used by the view
// projection. It does not touch the authoritative list.
func (m *Manager) SetLiveStats(stats map[int64]domain.LiveStats) {
	m.mu.Lock()
	m.live = stats
	m.mu.Unlock()
}

// LiveStats returns the current external telemetry map.
func (m *Manager) LiveStats() map[int64]domain.LiveStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]domain.LiveStats, len(m.live))
	for id, stats := range m.live {
		out[id] = stats
	}
	return out
}

// Stop requests a server-side stop. The view is not mutated locally; the
// next snapshot is the sole source of the updated state.
func (m *Manager) Stop(ctx context.Context, id int64) error {
	token, _, ok := m.session()
	if !ok {
		return ErrNotActivated
	}
	return m.backend.Stop(ctx, id, token)
}

// Resume requests a server-side resume. Like Stop, it relies on the next
// snapshot for the visible effect.
func (m *Manager) Resume(ctx context.Context, id int64) error {
	token, _, ok := m.session()
	if !ok {
		return ErrNotActivated
	}
	return m.backend.Resume(ctx, id, token)
}

// Delete removes the torrent and then re-fetches the list immediately: the
// push channel may not reflect a deletion promptly, and the view must not
// keep showing a deleted entry.
func (m *Manager) Delete(ctx context.Context, id int64) error {
	token, gen, ok := m.session()
	if !ok {
		return ErrNotActivated
	}
	if err := m.backend.Delete(ctx, id, token); err != nil {
		return err
	}
	m.refresh(ctx, gen)
	return nil
}

// RequestDelete holds an id awaiting user confirmation. At most one target
// is held; a new request replaces the previous one.
func (m *Manager) RequestDelete(id int64) {
	m.mu.Lock()
	m.pendingDelete = id
	m.mu.Unlock()
}

// PendingDelete returns the held target, if any.
func (m *Manager) PendingDelete() (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pendingDelete, m.pendingDelete != 0
}

// ConfirmDelete dispatches the held delete and clears the target. The
// target is cleared even when the remote call fails; the caller decides
// whether to re-request.
func (m *Manager) ConfirmDelete(ctx context.Context) error {
	m.mu.Lock()
	id := m.pendingDelete
	m.pendingDelete = 0
	m.mu.Unlock()
	if id == 0 {
		return ErrNoPendingDelete
	}
	return m.Delete(ctx, id)
}

// CancelDelete clears the held target without any remote call.
func (m *Manager) CancelDelete() {
	m.mu.Lock()
	m.pendingDelete = 0
	m.mu.Unlock()
}

// session snapshots the token and generation of the active session.
func (m *Manager) session() (token string, gen uint64, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.gen, m.token != ""
}

// refresh performs one authoritative fetch and replaces the view, unless
// the session changed while the request was in flight. A failed fetch keeps
// the prior view: stale-but-consistent beats empty.
func (m *Manager) refresh(ctx context.Context, gen uint64) {
	records, err := m.backend.List(ctx)
	if err != nil {
		metrics.ListFetchFailuresTotal.Inc()
		m.logger.Warn("torrent list fetch failed", slog.String("error", err.Error()))
		return
	}
	domain.SortByIDDesc(records)

	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.view = records
	m.mu.Unlock()
	metrics.TorrentsInView.Set(float64(len(records)))
}

// connect performs one dial attempt for the given session generation.
func (m *Manager) connect(gen uint64) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.setStateLocked(StateConnecting)
	endpoint := m.endpoint.URL(m.token)
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	conn, err := m.dialer.Dial(ctx, endpoint)
	cancel()

	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		if err == nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		m.setStateLocked(StateDisconnected)
		m.scheduleRetryLocked(gen)
		m.mu.Unlock()
		m.logger.Warn("push channel dial failed",
			slog.String("error", err.Error()),
			slog.Duration("retryIn", m.reconnectDelay),
		)
		return
	}
	m.conn = conn
	m.setStateLocked(StateConnected)
	m.mu.Unlock()

	m.logger.Info("push channel connected")
	go m.readLoop(gen, conn)
}

// readLoop pumps messages from one channel until it fails or closes.
func (m *Manager) readLoop(gen uint64, conn Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			m.handleClose(gen, conn, err)
			return
		}
		m.handleMessage(gen, data)
	}
}

// handleClose runs for every channel error or closure. The channel is
// force-closed so no duplicate can stay open, and exactly one reconnect is
// scheduled; a close raced by Deactivate or a newer connect is a no-op.
func (m *Manager) handleClose(gen uint64, conn Conn, cause error) {
	_ = conn.Close()

	m.mu.Lock()
	if gen != m.gen || m.conn != conn {
		m.mu.Unlock()
		return
	}
	m.conn = nil
	m.setStateLocked(StateDisconnected)
	m.scheduleRetryLocked(gen)
	m.mu.Unlock()

	m.logger.Warn("push channel closed",
		slog.String("error", cause.Error()),
		slog.Duration("retryIn", m.reconnectDelay),
	)
}

// handleMessage applies one inbound message. Only snapshots change state;
// anything malformed or foreign is dropped and the view stays untouched.
func (m *Manager) handleMessage(gen uint64, data []byte) {
	records, err := decodeSnapshot(data)
	if err != nil {
		if errors.Is(err, errIgnoredMessage) {
			m.logger.Debug("push message ignored")
			return
		}
		metrics.SnapshotParseFailuresTotal.Inc()
		m.logger.Warn("push message dropped", slog.String("error", err.Error()))
		return
	}
	domain.SortByIDDesc(records)

	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.view = records
	m.mu.Unlock()

	metrics.SnapshotsAppliedTotal.Inc()
	metrics.TorrentsInView.Set(float64(len(records)))
}

// scheduleRetryLocked arms the single reconnect timer. An already pending
// timer is superseded, never stacked.
func (m *Manager) scheduleRetryLocked(gen uint64) {
	if m.retry != nil {
		m.retry.Stop()
	}
	metrics.ReconnectsScheduledTotal.Inc()
	m.retry = time.AfterFunc(m.reconnectDelay, func() {
		m.mu.Lock()
		if gen != m.gen {
			m.mu.Unlock()
			return
		}
		m.retry = nil
		m.mu.Unlock()
		m.connect(gen)
	})
}

func (m *Manager) cancelRetryLocked() {
	if m.retry != nil {
		m.retry.Stop()
		m.retry = nil
	}
}

func (m *Manager) closeConnLocked() {
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
}

func (m *Manager) setStateLocked(state ConnState) {
	m.state = state
	metrics.ConnectionState.Set(state.gaugeValue())
}

// retryPending reports whether a reconnect timer is armed. Test hook.
func (m *Manager) retryPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.retry != nil
}
