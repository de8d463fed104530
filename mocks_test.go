package storefront_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/goliatone/go-storefront"
)

// fakeIdentityClient is a scriptable identity provider. Behavior defaults to
// "signed out, no errors"; tests override the function fields they care
// about. Emit drives the subscription callback the way a real provider would.
type fakeIdentityClient struct {
	mu       sync.Mutex
	listener func(event storefront.IdentityEvent, session *storefront.SessionObject)

	currentSession  func(ctx context.Context) (*storefront.SessionObject, error)
	userFromSession func(ctx context.Context, session *storefront.SessionObject) (*storefront.User, error)
	refreshSession  func(ctx context.Context) (*storefront.SessionObject, error)
	signIn          func(ctx context.Context, email, password string) (*storefront.User, error)
	signOut         func(ctx context.Context) error

	currentSessionCalls  atomic.Int32
	userFromSessionCalls atomic.Int32
	refreshCalls         atomic.Int32
	signOutCalls         atomic.Int32
}

var _ storefront.IdentityClient = (*fakeIdentityClient)(nil)

func (f *fakeIdentityClient) CurrentSession(ctx context.Context) (*storefront.SessionObject, error) {
	f.currentSessionCalls.Add(1)
	if f.currentSession != nil {
		return f.currentSession(ctx)
	}
	return nil, nil
}

func (f *fakeIdentityClient) UserFromSession(ctx context.Context, session *storefront.SessionObject) (*storefront.User, error) {
	f.userFromSessionCalls.Add(1)
	if f.userFromSession != nil {
		return f.userFromSession(ctx, session)
	}
	return &storefront.User{ID: session.UserID, Email: "user@example.com"}, nil
}

func (f *fakeIdentityClient) Subscribe(fn func(event storefront.IdentityEvent, session *storefront.SessionObject)) storefront.Unsubscribe {
	f.mu.Lock()
	f.listener = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		f.listener = nil
		f.mu.Unlock()
	}
}

// Emit invokes the registered subscriber on the calling goroutine.
func (f *fakeIdentityClient) Emit(event storefront.IdentityEvent, session *storefront.SessionObject) {
	f.mu.Lock()
	listener := f.listener
	f.mu.Unlock()

	if listener != nil {
		listener(event, session)
	}
}

func (f *fakeIdentityClient) RefreshSession(ctx context.Context) (*storefront.SessionObject, error) {
	f.refreshCalls.Add(1)
	if f.refreshSession != nil {
		return f.refreshSession(ctx)
	}
	return nil, nil
}

func (f *fakeIdentityClient) SignIn(ctx context.Context, email, password string) (*storefront.User, error) {
	if f.signIn != nil {
		return f.signIn(ctx, email, password)
	}
	return &storefront.User{ID: "user-1", Email: email}, nil
}

func (f *fakeIdentityClient) SignOut(ctx context.Context) error {
	f.signOutCalls.Add(1)
	if f.signOut != nil {
		return f.signOut(ctx)
	}
	return nil
}

func (f *fakeIdentityClient) RequestPasswordReset(ctx context.Context, email, redirectTarget string) error {
	return nil
}

func (f *fakeIdentityClient) UpdatePassword(ctx context.Context, newPassword string) error {
	return nil
}

// fixedLookup always answers the same classification.
type fixedLookup struct {
	isCreator bool
	err       error
	calls     atomic.Int32
}

func (l *fixedLookup) ExistsForUser(ctx context.Context, userID string) (bool, error) {
	l.calls.Add(1)
	return l.isCreator, l.err
}

// blockingLookup parks ExistsForUser until released, so tests can interleave
// a sign-out with an in-flight resolution.
type blockingLookup struct {
	started chan struct{}
	release chan struct{}
	result  bool
	once    sync.Once
	calls   atomic.Int32
}

func newBlockingLookup(result bool) *blockingLookup {
	return &blockingLookup{
		started: make(chan struct{}),
		release: make(chan struct{}),
		result:  result,
	}
}

func (l *blockingLookup) ExistsForUser(ctx context.Context, userID string) (bool, error) {
	if l.calls.Add(1) == 1 {
		l.once.Do(func() { close(l.started) })
		<-l.release
	}
	return l.result, nil
}

// capturingSink records every activity event it sees.
type capturingSink struct {
	mu     sync.Mutex
	events []storefront.ActivityEvent
}

func (c *capturingSink) Record(ctx context.Context, event storefront.ActivityEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *capturingSink) Events() []storefront.ActivityEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]storefront.ActivityEvent, len(c.events))
	copy(out, c.events)
	return out
}

func (c *capturingSink) Has(eventType storefront.ActivityEventType) bool {
	for _, event := range c.Events() {
		if event.EventType == eventType {
			return true
		}
	}
	return false
}

func (c *capturingSink) Count(eventType storefront.ActivityEventType) int {
	count := 0
	for _, event := range c.Events() {
		if event.EventType == eventType {
			count++
		}
	}
	return count
}

// captureLogger keeps log messages for assertions.
type captureLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *captureLogger) log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func (l *captureLogger) Debug(msg string, args ...any) { l.log(msg) }
func (l *captureLogger) Info(msg string, args ...any)  { l.log(msg) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.log(msg) }
func (l *captureLogger) Error(msg string, args ...any) { l.log(msg) }

func (l *captureLogger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.messages))
	copy(out, l.messages)
	return out
}

// failingCartRepository simulates a broken durable store.
type failingCartRepository struct {
	loadErr   error
	saveErr   error
	saveCalls atomic.Int32
}

func (r *failingCartRepository) Load(ctx context.Context) (storefront.CartState, error) {
	return storefront.CartState{}, r.loadErr
}

func (r *failingCartRepository) Save(ctx context.Context, state storefront.CartState) error {
	r.saveCalls.Add(1)
	return r.saveErr
}
