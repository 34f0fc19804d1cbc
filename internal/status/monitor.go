package status

import (
	"context"
	"crypto/tls"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Options configures a Monitor.
type Options struct {
	URL            string
	Dialer         *websocket.Dialer // nil: a dialer using TLSConfig
	TLSConfig      *tls.Config
	MaxAttempts    int           // dials per retry round, at least 1
	InitialBackoff time.Duration // delay before the first retry after a close
	MaxBackoff     time.Duration
	Logger         zerolog.Logger
}

// Monitor keeps a WebSocket open to the processing server and exposes
// whether it is currently connected. Nothing sent over the socket is
// interpreted: only open and close events move the flag.
//
// A close event starts exactly one retry round of at most MaxAttempts dials.
// If a round is exhausted the monitor idles until Reconnect or Stop.
type Monitor struct {
	opts    Options
	dialer  *websocket.Dialer
	backoff backoff
	logger  zerolog.Logger

	mu          sync.Mutex
	connected   bool
	subscribers []func(bool)
	giveUp      []func()
	cancel      context.CancelFunc
	done        chan struct{}

	reconnect chan struct{}
}

// NewMonitor creates a stopped monitor.
func NewMonitor(opts Options) *Monitor {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = 500 * time.Millisecond
	}
	if opts.MaxBackoff < opts.InitialBackoff {
		opts.MaxBackoff = opts.InitialBackoff
	}
	dialer := opts.Dialer
	if dialer == nil {
		dialer = &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
			TLSClientConfig:  opts.TLSConfig,
		}
	}
	return &Monitor{
		opts:      opts,
		dialer:    dialer,
		backoff:   backoff{initial: opts.InitialBackoff, max: opts.MaxBackoff},
		logger:    opts.Logger.With().Str("url", opts.URL).Logger(),
		reconnect: make(chan struct{}, 1),
	}
}

// Subscribe registers fn to be called with the new flag on every open and
// close event. Callbacks run on the monitor goroutine and must not block.
func (m *Monitor) Subscribe(fn func(connected bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// OnGiveUp registers fn to be called each time a retry round is exhausted.
func (m *Monitor) OnGiveUp(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.giveUp = append(m.giveUp, fn)
}

// Connected reports the current flag.
func (m *Monitor) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// Start opens the socket in the background. Calling Start on a running
// monitor does nothing.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	go m.run(ctx, m.done)
}

// Stop closes the socket and waits for the monitor goroutine to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Reconnect starts a new retry round if the previous one gave up. It is a
// no-op while connected or while a round is in progress.
func (m *Monitor) Reconnect() {
	select {
	case m.reconnect <- struct{}{}:
	default:
	}
}

func (m *Monitor) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	// the first round dials immediately, later ones wait first
	delayFirst := false
	for {
		conn := m.round(ctx, delayFirst)
		if ctx.Err() != nil {
			if conn != nil {
				_ = conn.Close()
			}
			return
		}
		if conn != nil {
			m.serve(ctx, conn)
			delayFirst = true
			continue
		}

		m.logger.Warn().Int("attempts", m.opts.MaxAttempts).Msg("status socket unreachable, giving up until reconnect")
		m.mu.Lock()
		giveUp := append([]func(){}, m.giveUp...)
		m.mu.Unlock()
		for _, fn := range giveUp {
			fn()
		}
		// drop a stale request made while the round was running
		select {
		case <-m.reconnect:
		default:
		}
		select {
		case <-ctx.Done():
			return
		case <-m.reconnect:
			delayFirst = false
		}
	}
}

// round makes up to MaxAttempts dials and returns the first open connection.
func (m *Monitor) round(ctx context.Context, delayFirst bool) *websocket.Conn {
	for attempt := 0; attempt < m.opts.MaxAttempts; attempt++ {
		if attempt > 0 || delayFirst {
			d := m.backoff.delay(attempt)
			if !sleep(ctx, d) {
				return nil
			}
		}
		conn, _, err := m.dialer.DialContext(ctx, m.opts.URL, nil)
		if err == nil {
			return conn
		}
		if ctx.Err() != nil {
			return nil
		}
		m.logger.Debug().Err(err).Int("attempt", attempt+1).Msg("status socket dial failed")
	}
	return nil
}

// serve holds the connection until it closes or ctx ends.
func (m *Monitor) serve(ctx context.Context, conn *websocket.Conn) {
	m.setConnected(true)
	m.logger.Info().Msg("status socket open")

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && ctx.Err() == nil {
				m.logger.Debug().Err(err).Msg("status socket read error")
			}
			break
		}
	}
	_ = conn.Close()

	m.setConnected(false)
	m.logger.Info().Msg("status socket closed")
}

func (m *Monitor) setConnected(v bool) {
	m.mu.Lock()
	m.connected = v
	subs := append([]func(bool){}, m.subscribers...)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}
