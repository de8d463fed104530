package storefront

import (
	"context"
	"sync"
	"time"
)

// SessionState names the phases of the identity lifecycle.
type SessionState string

const (
	// StateUnauthenticated means no session; user and creator flag are clear.
	StateUnauthenticated SessionState = "unauthenticated"
	// StateAuthenticating is the transient phase while a session is being
	// turned into a full identity (user projection + role resolution).
	StateAuthenticating SessionState = "authenticating"
	// StateAuthenticated means session, user, and creator flag are all set.
	StateAuthenticated SessionState = "authenticated"
	// StateRefreshing is a transient overlay on Authenticated while the
	// background loop exchanges the session for a fresh one.
	StateRefreshing SessionState = "refreshing"
)

// IdentitySnapshot is a consistent read of the (session, user, isCreator)
// tuple. The three fields always describe the same identity.
type IdentitySnapshot struct {
	Session   *SessionObject
	User      *User
	IsCreator bool
	State     SessionState
}

// Authenticated reports whether the snapshot carries a full identity.
func (s IdentitySnapshot) Authenticated() bool {
	return s.Session != nil && s.User != nil
}

// IdentityObserver receives every identity transition. Observers run on the
// transitioning goroutine and must not block.
type IdentityObserver func(IdentitySnapshot)

// SessionManager owns process-wide authentication state. All writers
// (bootstrap, provider events, the refresh loop, sign-out) funnel through it;
// a monotonic generation counter guarantees that a sign-out always wins over
// an in-flight resolution that lands late.
type SessionManager struct {
	client   IdentityClient
	resolver *RoleResolver

	logger          Logger
	provider        LoggerProvider
	sink            ActivitySink
	refreshInterval time.Duration
	now             func() time.Time

	mu           sync.Mutex
	session      *SessionObject
	user         *User
	isCreator    bool
	state        SessionState
	generation   uint64
	bootstrapped bool
	unsubscribe  Unsubscribe

	obsMu     sync.Mutex
	observers map[int]IdentityObserver
	obsSeq    int
}

// SessionManagerOption customizes manager construction.
type SessionManagerOption func(*SessionManager)

// WithSessionManagerLogger overrides the manager logger.
func WithSessionManagerLogger(logger Logger) SessionManagerOption {
	return func(m *SessionManager) {
		m.provider, m.logger = ResolveLogger("storefront.session", m.provider, logger)
	}
}

// WithSessionManagerLoggerProvider resolves a scoped logger from the provider.
func WithSessionManagerLoggerProvider(provider LoggerProvider) SessionManagerOption {
	return func(m *SessionManager) {
		m.provider, m.logger = ResolveLogger("storefront.session", provider, m.logger)
	}
}

// WithSessionManagerActivitySink sets the sink used for lifecycle events.
func WithSessionManagerActivitySink(sink ActivitySink) SessionManagerOption {
	return func(m *SessionManager) {
		m.sink = normalizeActivitySink(sink)
	}
}

// WithSessionManagerClock injects a custom clock (useful for tests).
func WithSessionManagerClock(clock func() time.Time) SessionManagerOption {
	return func(m *SessionManager) {
		if clock != nil {
			m.now = clock
		}
	}
}

// WithRefreshInterval overrides the background refresh cadence.
func WithRefreshInterval(interval time.Duration) SessionManagerOption {
	return func(m *SessionManager) {
		if interval > 0 {
			m.refreshInterval = interval
		}
	}
}

// NewSessionManager returns a manager in the unauthenticated state. Call
// Bootstrap once at startup, then StartRefreshLoop.
func NewSessionManager(client IdentityClient, resolver *RoleResolver, opts ...SessionManagerOption) *SessionManager {
	provider, logger := ResolveLogger("storefront.session", nil, nil)
	m := &SessionManager{
		client:          client,
		resolver:        resolver,
		logger:          logger,
		provider:        provider,
		sink:            noopActivitySink{},
		refreshInterval: DefaultRefreshInterval,
		now:             time.Now,
		state:           StateUnauthenticated,
		observers:       map[int]IdentityObserver{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	return m
}

// Bootstrap requests the current session from the identity provider exactly
// once, subscribes to provider events, and settles the identity state. Every
// failure path degrades to a decidable state rather than propagating:
// provider errors leave the manager unauthenticated.
func (m *SessionManager) Bootstrap(ctx context.Context) (IdentitySnapshot, error) {
	m.mu.Lock()
	if m.bootstrapped {
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap, ErrBootstrapRepeated
	}
	m.bootstrapped = true
	m.mu.Unlock()

	unsubscribe := m.client.Subscribe(m.handleIdentityEvent)
	m.mu.Lock()
	m.unsubscribe = unsubscribe
	m.mu.Unlock()

	m.record(ctx, ActivityEvent{EventType: ActivityEventSessionBootstrap})

	session, err := m.client.CurrentSession(ctx)
	if err != nil {
		m.logger.Error("bootstrap session fetch failed", "error", err)
		return m.clearIdentity(ctx, "bootstrap failure"), nil
	}

	if session == nil {
		// Defensively clear any partially applied prior state.
		return m.clearIdentity(ctx, "no active session"), nil
	}

	return m.activate(ctx, session), nil
}

// handleIdentityEvent is the provider subscription callback. Sign-out-class
// events, and any event without a session, clear unconditionally. Events
// carrying a session follow the bootstrap success path.
func (m *SessionManager) handleIdentityEvent(event IdentityEvent, session *SessionObject) {
	ctx := context.Background()

	if event.IsSignOutClass() || session == nil {
		m.logger.Debug("identity event clears state", "event", event)
		m.clearIdentity(ctx, string(event))
		return
	}

	m.logger.Debug("identity event activates session", "event", event, "user_id", session.UserID)
	m.activate(ctx, session)
}

// activate installs a session and derives the rest of the identity: user
// projection, then creator flag. The generation captured before the async
// work guards the final write; if a clear ran in between, the late result is
// discarded instead of resurrecting identity.
func (m *SessionManager) activate(ctx context.Context, session *SessionObject) IdentitySnapshot {
	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.session = session
	m.user = nil
	m.isCreator = false
	m.state = StateAuthenticating
	m.mu.Unlock()

	user, err := m.client.UserFromSession(ctx, session)
	if err != nil || user == nil {
		if err != nil {
			m.logger.Error("user projection fetch failed, using minimal projection", "user_id", session.UserID, "error", err)
		}
		user = &User{ID: session.UserID}
	}

	isCreator := m.resolver.Resolve(ctx, session.UserID)

	m.mu.Lock()
	if m.generation != gen {
		// A clear (or a newer activation) won the race.
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap
	}
	m.user = user
	m.isCreator = isCreator
	m.state = StateAuthenticated
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.record(ctx, ActivityEvent{
		EventType: ActivityEventRoleResolved,
		UserID:    session.UserID,
		Metadata:  map[string]any{"is_creator": isCreator},
	})
	m.record(ctx, ActivityEvent{
		EventType: ActivityEventSessionActivated,
		UserID:    session.UserID,
		ToState:   StateAuthenticated,
	})

	m.notify(snap)
	return snap
}

// clearIdentity unconditionally clears all three identity fields. It bumps
// the generation so any in-flight activation or refresh resolves stale.
func (m *SessionManager) clearIdentity(ctx context.Context, reason string) IdentitySnapshot {
	m.mu.Lock()
	m.generation++
	from := m.state
	userID := ""
	if m.user != nil {
		userID = m.user.ID
	}
	m.session = nil
	m.user = nil
	m.isCreator = false
	m.state = StateUnauthenticated
	snap := m.snapshotLocked()
	m.mu.Unlock()

	if m.resolver != nil {
		m.resolver.Invalidate()
	}

	m.record(ctx, ActivityEvent{
		EventType: ActivityEventSessionCleared,
		UserID:    userID,
		FromState: from,
		ToState:   StateUnauthenticated,
		Metadata:  map[string]any{"reason": reason},
	})

	m.notify(snap)
	return snap
}

// StartRefreshLoop runs the periodic session refresh until ctx is cancelled.
// A single failed tick clears identity but never tears down the loop; the
// loop stops only with its owning context.
func (m *SessionManager) StartRefreshLoop(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.refreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.refreshOnce(ctx)
			}
		}
	}()
}

// refreshOnce attempts one session refresh. Success replaces the session in
// place; user and creator flag are untouched and the role is never
// re-resolved. Failure is treated as a sign-out: cleared, not retried.
func (m *SessionManager) refreshOnce(ctx context.Context) {
	m.mu.Lock()
	if m.state != StateAuthenticated {
		m.mu.Unlock()
		return
	}
	gen := m.generation
	m.state = StateRefreshing
	m.mu.Unlock()

	session, err := m.client.RefreshSession(ctx)

	m.mu.Lock()
	if m.generation != gen {
		m.mu.Unlock()
		return
	}

	if err != nil || session == nil {
		m.mu.Unlock()
		m.logger.Warn("session refresh failed, clearing identity", "error", err)
		m.record(ctx, ActivityEvent{
			EventType: ActivityEventRefreshFailure,
			Metadata:  map[string]any{"error": errString(err)},
		})
		m.clearIdentity(ctx, "refresh failure")
		return
	}

	m.session = session
	m.state = StateAuthenticated
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.notify(snap)
}

// SignOut clears local state immediately and then makes a best-effort call
// to the provider. Local state must never remain authenticated after a
// user-initiated sign-out, even if the network call fails.
func (m *SessionManager) SignOut(ctx context.Context) IdentitySnapshot {
	snap := m.clearIdentity(ctx, "user sign out")

	if err := m.client.SignOut(ctx); err != nil {
		m.logger.Warn("provider sign out failed, local state already cleared", "error", err)
	}

	return snap
}

// CurrentIdentity returns a consistent snapshot of the identity tuple.
func (m *SessionManager) CurrentIdentity() IdentitySnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// OnChange registers an observer for identity transitions. The route gate
// subscribes here so navigation decisions always see the latest state.
func (m *SessionManager) OnChange(observer IdentityObserver) Unsubscribe {
	if observer == nil {
		return func() {}
	}

	m.obsMu.Lock()
	m.obsSeq++
	id := m.obsSeq
	m.observers[id] = observer
	m.obsMu.Unlock()

	return func() {
		m.obsMu.Lock()
		delete(m.observers, id)
		m.obsMu.Unlock()
	}
}

// Close detaches the provider subscription.
func (m *SessionManager) Close() {
	m.mu.Lock()
	unsubscribe := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (m *SessionManager) snapshotLocked() IdentitySnapshot {
	return IdentitySnapshot{
		Session:   m.session,
		User:      m.user,
		IsCreator: m.isCreator,
		State:     m.state,
	}
}

func (m *SessionManager) notify(snap IdentitySnapshot) {
	m.obsMu.Lock()
	observers := make([]IdentityObserver, 0, len(m.observers))
	for _, observer := range m.observers {
		observers = append(observers, observer)
	}
	m.obsMu.Unlock()

	for _, observer := range observers {
		observer(snap)
	}
}

func (m *SessionManager) record(ctx context.Context, event ActivityEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = m.now()
	}

	sink := normalizeActivitySink(m.sink)
	if err := sink.Record(ctx, event); err != nil {
		m.logger.Warn("session manager activity sink error", "error", err)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
