package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cinehub/sessionkit/pkg/apiclient"
	"github.com/cinehub/sessionkit/pkg/await"
	"github.com/cinehub/sessionkit/pkg/credstore"
	"github.com/cinehub/sessionkit/pkg/identity"
	"github.com/cinehub/sessionkit/pkg/kvstore"
	"github.com/cinehub/sessionkit/pkg/logger"
	"github.com/cinehub/sessionkit/pkg/redirect"
)

// Manager owns the Session and drives every transition. Construct one per
// client process and inject it; collaborators never mutate session state
// directly.
type Manager struct {
	api     *apiclient.Client
	creds   *credstore.Store
	intents *redirect.Store
	cfg     Config
	logger  *slog.Logger
	locator func() string

	mu          sync.Mutex
	current     Session
	epoch       uint64
	subscribers map[int]func(Session)
	nextSubID   int
}

// Outcome is the result of a completed login or registration.
type Outcome struct {
	Identity identity.Identity

	// ResumePath is the consumed RedirectIntent: where the user was trying
	// to go before authentication interrupted them. Empty when nothing was
	// pending.
	ResumePath string
}

// New creates a session manager. The api client should be built on the
// gateway transport, and the gateway's unauthorized handler wired to
// HandleUnauthorized.
func New(api *apiclient.Client, creds *credstore.Store, intents *redirect.Store, opts ...Option) *Manager {
	m := &Manager{
		api:         api,
		creds:       creds,
		intents:     intents,
		cfg:         DefaultConfig(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		current:     Session{Status: StatusUnauthenticated},
		subscribers: make(map[int]func(Session)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Config returns the manager's configuration; the gateway is wired from it.
func (m *Manager) Config() Config {
	return m.cfg
}

// Current returns a snapshot of the session state.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe registers a state change listener and returns its cancel
// function. The listener receives a snapshot after every transition.
func (m *Manager) Subscribe(fn func(Session)) func() {
	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subscribers, id)
		m.mu.Unlock()
	}
}

// Start resolves the initial session state. Without a cached credential the
// session is Unauthenticated. With one it passes through Verifying and
// revalidates against the server: an explicit rejection clears the cache
// and logs the user out, while an unreachable server keeps the cached
// identity. Availability over strictness.
func (m *Manager) Start(ctx context.Context) error {
	cred, err := m.creds.Load(ctx)
	switch {
	case errors.Is(err, credstore.ErrStorageCorrupt):
		// Cleared by the store already; not user-visible.
		m.logger.WarnContext(ctx, "corrupt credential record cleared at startup")
		m.apply(StatusUnauthenticated, nil)
		m.watchCredentials(ctx)
		return nil
	case err != nil:
		m.apply(StatusUnauthenticated, nil)
		m.watchCredentials(ctx)
		return fmt.Errorf("session: load credential: %w", err)
	case cred == nil:
		m.apply(StatusUnauthenticated, nil)
		m.watchCredentials(ctx)
		return nil
	}

	cached := cred.Identity
	epoch := m.apply(StatusVerifying, &cached)
	m.revalidate(ctx, epoch, cred)
	m.watchCredentials(ctx)
	return nil
}

func (m *Manager) revalidate(ctx context.Context, epoch uint64, cred *credstore.Credential) {
	cached := cred.Identity

	if !cached.HasNumericID() {
		// No usable identifier to revalidate with; keep the cached record.
		m.logger.WarnContext(ctx, "cached identity has no numeric id, skipping revalidation",
			slog.String("raw_id", cached.RawID))
		cached.Source = identity.SourceCached
		m.commit(ctx, epoch, StatusAuthenticated, &cached)
		return
	}

	user, err := m.api.GetUser(ctx, cached.ID)
	switch {
	case err == nil:
		fresh := identity.Normalize(user)
		merged, changed := identity.Merge(cached, fresh)
		merged.Source = identity.SourceVerified
		if changed {
			if err := m.creds.Save(ctx, cred.Token, merged); err != nil {
				m.logger.ErrorContext(ctx, "persisting revalidated identity failed",
					logger.Error(err))
			}
		}
		m.commit(ctx, epoch, StatusAuthenticated, &merged)

	case errors.Is(err, apiclient.ErrUnauthorized):
		// The server explicitly rejected the cached credential.
		m.logger.InfoContext(ctx, "cached credential rejected by server",
			logger.Error(err))
		if err := m.creds.Clear(ctx); err != nil {
			m.logger.ErrorContext(ctx, "clearing rejected credential failed",
				logger.Error(err))
		}
		m.commit(ctx, epoch, StatusUnauthenticated, nil)

	default:
		// Anything short of an explicit rejection must not log a returning
		// user out; resolve to Authenticated on the cached record.
		m.logger.WarnContext(ctx, "revalidation inconclusive, keeping cached identity",
			logger.Error(err))
		cached.Source = identity.SourceCached
		m.commit(ctx, epoch, StatusAuthenticated, &cached)
	}
}

// Login authenticates with email and password. It runs the strict
// sequence submit → await cookie → fetch canonical identity → persist →
// consume redirect intent; any step failing aborts the rest.
func (m *Manager) Login(ctx context.Context, email, password string) (*Outcome, error) {
	epoch := m.apply(StatusVerifying, nil)

	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.abort(ctx, epoch, "login", err)
		return nil, err
	}

	return m.completeAuth(ctx, epoch, resp, email)
}

// Register creates an account and enters the authenticated state through
// the same sequence as Login.
func (m *Manager) Register(ctx context.Context, params apiclient.RegisterParams) (*Outcome, error) {
	epoch := m.apply(StatusVerifying, nil)

	resp, err := m.api.Register(ctx, params)
	if err != nil {
		m.abort(ctx, epoch, "register", err)
		return nil, err
	}

	return m.completeAuth(ctx, epoch, resp, params.Email)
}

func (m *Manager) completeAuth(ctx context.Context, epoch uint64, resp *apiclient.AuthResponse, email string) (*Outcome, error) {
	cookieValue, err := await.Cookie(ctx, m.api.Jar(), m.api.Site(), m.cfg.CookieName,
		m.cfg.CookieTimeout, m.cfg.CookiePollInterval)
	if err != nil {
		m.abort(ctx, epoch, "cookie wait", err)
		return nil, fmt.Errorf("session setup failed: %w", err)
	}
	m.logCookieClaims(ctx, cookieValue)

	final := m.resolveIdentity(ctx, resp.User, email)

	token := resp.Token
	if token == "" {
		// Cookie-only backends: persist the cookie value as the bearer.
		token = cookieValue
	}

	m.mu.Lock()
	stale := epoch != m.epoch
	m.mu.Unlock()
	if stale {
		m.logger.InfoContext(ctx, "discarding stale authentication result",
			logger.UserID(final.ID))
		return nil, ErrSuperseded
	}

	if err := m.creds.Save(ctx, token, final); err != nil {
		m.abort(ctx, epoch, "persist credential", err)
		return nil, fmt.Errorf("session: persist credential: %w", err)
	}

	if !m.commit(ctx, epoch, StatusAuthenticated, &final) {
		// The session moved on while the credential was being persisted;
		// the pending intent belongs to the newer state, leave it alone.
		return nil, ErrSuperseded
	}

	resume, err := m.intents.Consume(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "consuming redirect intent failed",
			logger.Error(err))
	}

	return &Outcome{Identity: final, ResumePath: resume}, nil
}

// resolveIdentity turns the auth response payload into the session's
// identity. The canonical record comes from GET /users/{id}; when that
// lookup fails the normalized login payload itself is used, tagged
// degraded, with the submitted email as a last-resort contact field.
func (m *Manager) resolveIdentity(ctx context.Context, user map[string]any, email string) identity.Identity {
	submitted := identity.Normalize(user)

	if submitted.HasNumericID() {
		canonical, err := m.api.GetUser(ctx, submitted.ID)
		if err == nil {
			fresh := identity.Normalize(canonical)
			merged, _ := identity.Merge(submitted, fresh)
			merged.Source = identity.SourceVerified
			return merged
		}
		m.logger.WarnContext(ctx, "post-login identity fetch failed, using degraded identity",
			logger.UserID(submitted.ID),
			logger.Error(err))
	}

	submitted.Source = identity.SourceDegraded
	if submitted.Email == "" {
		submitted.Email = email
	}
	return submitted
}

// Logout clears the credential and the pending plan choice, expires the
// session cookie best-effort, and drops to Unauthenticated. Storage
// failures never block the local transition.
func (m *Manager) Logout(ctx context.Context) {
	m.apply(StatusUnauthenticated, nil)

	if err := m.creds.Clear(ctx); err != nil {
		m.logger.ErrorContext(ctx, "clearing credential on logout failed",
			logger.Error(err))
	}
	if err := m.creds.ClearPlan(ctx); err != nil {
		m.logger.ErrorContext(ctx, "clearing plan selection on logout failed",
			logger.Error(err))
	}

	m.api.ExpireSessionCookie(m.cfg.CookieName)
	m.logger.InfoContext(ctx, "logged out")
}

// HandleUnauthorized is the gateway's 401 hook: silent teardown plus a
// recorded intent so the user lands back where they were after logging in
// again. Wire it via gateway.WithUnauthorizedHandler.
func (m *Manager) HandleUnauthorized(path string) {
	ctx := context.Background()

	m.apply(StatusUnauthenticated, nil)

	if err := m.creds.Clear(ctx); err != nil {
		m.logger.ErrorContext(ctx, "clearing credential after 401 failed",
			logger.Error(err))
	}

	location := path
	if m.locator != nil {
		if loc := m.locator(); loc != "" {
			location = loc
		}
	}
	if err := m.intents.Defer(ctx, location); err != nil {
		m.logger.ErrorContext(ctx, "recording redirect intent failed",
			logger.Error(err))
	}

	m.logger.InfoContext(ctx, "authentication expired",
		slog.String("deferred_path", location),
		slog.String("auth_path", m.cfg.AuthPath))
}

// Guard gates an action that needs authentication. When the session is not
// authenticated it records the intended destination and reports false; the
// caller then navigates to the authentication screen.
func (m *Manager) Guard(ctx context.Context, path string) bool {
	if m.Current().IsAuthenticated() {
		return true
	}
	if err := m.intents.Defer(ctx, path); err != nil {
		m.logger.WarnContext(ctx, "recording guarded intent failed",
			logger.Error(err))
	}
	return false
}

// UpdateProfile pushes profile fields to the server and merges the
// server's view back into the session and the persisted credential.
func (m *Manager) UpdateProfile(ctx context.Context, fields map[string]any) (*identity.Identity, error) {
	cur, epoch := m.currentWithEpoch()
	if !cur.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	user, err := m.api.UpdateUser(ctx, cur.Identity.ID, fields)
	if err != nil {
		return nil, fmt.Errorf("session: update profile: %w", err)
	}

	fresh := identity.Normalize(user)
	if user == nil {
		// Backends answering with an empty body: apply the submitted fields.
		fresh = identity.Normalize(fields)
	}

	merged, changed := identity.Merge(*cur.Identity, fresh)
	merged.Source = identity.SourceVerified
	if changed {
		if err := m.creds.Save(ctx, m.creds.Token(ctx), merged); err != nil {
			m.logger.ErrorContext(ctx, "persisting updated profile failed",
				logger.Error(err))
		}
	}

	if !m.commit(ctx, epoch, StatusAuthenticated, &merged) {
		return nil, ErrSuperseded
	}
	return &merged, nil
}

// SelectPlan confirms a subscription tier with the server, then records it
// in the independent plan slot and in the identity.
func (m *Manager) SelectPlan(ctx context.Context, tier identity.Tier) error {
	if !identity.KnownTier(tier) {
		return fmt.Errorf("session: unknown tier %q", tier)
	}

	cur, epoch := m.currentWithEpoch()
	if !cur.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	if _, err := m.api.UpdateUser(ctx, cur.Identity.ID, map[string]any{"subscription": string(tier)}); err != nil {
		return fmt.Errorf("session: confirm plan: %w", err)
	}

	if err := m.creds.SavePlan(ctx, tier); err != nil {
		m.logger.ErrorContext(ctx, "persisting plan selection failed",
			logger.Error(err))
	}

	merged := *cur.Identity
	merged.SubscriptionTier = tier
	if err := m.creds.Save(ctx, m.creds.Token(ctx), merged); err != nil {
		m.logger.ErrorContext(ctx, "persisting identity with new tier failed",
			logger.Error(err))
	}

	if !m.commit(ctx, epoch, StatusAuthenticated, &merged) {
		return ErrSuperseded
	}
	return nil
}

// SelectedPlan returns the last confirmed tier choice, independent of the
// identity's possibly lagging subscription field.
func (m *Manager) SelectedPlan(ctx context.Context) identity.Tier {
	return m.creds.LoadPlan(ctx)
}

// watchCredentials observes external mutations of the credential storage so
// a logout in another client process is noticed here. Best-effort; plain
// backends simply do not participate.
func (m *Manager) watchCredentials(ctx context.Context) {
	events, err := m.creds.Watch(ctx)
	if errors.Is(err, kvstore.ErrWatchUnsupported) {
		m.logger.DebugContext(ctx, "credential storage is not watchable")
		return
	}
	if err != nil {
		m.logger.WarnContext(ctx, "watching credential storage failed",
			logger.Error(err))
		return
	}

	go func() {
		for ev := range events {
			if ev.Key != credstore.KeyAuthToken && ev.Key != credstore.KeyProfileData {
				continue
			}
			m.recheck(ctx)
		}
	}()
}

func (m *Manager) recheck(ctx context.Context) {
	cred, err := m.creds.Load(ctx)
	if err != nil && !errors.Is(err, credstore.ErrStorageCorrupt) {
		return
	}

	cur := m.Current()
	switch {
	case cred == nil && cur.Status == StatusAuthenticated:
		m.logger.InfoContext(ctx, "credential removed externally, logging out")
		m.apply(StatusUnauthenticated, nil)
	case cred != nil && cur.Status == StatusUnauthenticated:
		id := cred.Identity
		id.Source = identity.SourceCached
		m.logger.InfoContext(ctx, "credential appeared externally, adopting cached identity",
			logger.UserID(id.ID))
		m.apply(StatusAuthenticated, &id)
	}
}

// logCookieClaims peeks at the session cookie's claims for diagnostics.
// The signature is never verified client-side and the claims never gate a
// transition.
func (m *Manager) logCookieClaims(ctx context.Context, raw string) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		m.logger.DebugContext(ctx, "session cookie is not a parsable JWT")
		return
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		m.logger.DebugContext(ctx, "session cookie observed",
			slog.Time("expires_at", exp.Time))
		return
	}
	m.logger.DebugContext(ctx, "session cookie observed")
}

// apply unconditionally transitions to the given state, bumping the epoch
// so in-flight async completions know they are stale. Returns the new
// epoch.
func (m *Manager) apply(status Status, id *identity.Identity) uint64 {
	m.mu.Lock()
	m.setLocked(status, id)
	epoch := m.epoch
	snapshot := m.snapshotLocked()
	listeners := m.listenersLocked()
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
	return epoch
}

// commit transitions only when the epoch is still current, discarding
// results that lost a race against a newer transition.
func (m *Manager) commit(ctx context.Context, epoch uint64, status Status, id *identity.Identity) bool {
	m.mu.Lock()
	if epoch != m.epoch {
		m.mu.Unlock()
		m.logger.InfoContext(ctx, "discarding stale session transition",
			slog.String("status", status.String()))
		return false
	}
	m.setLocked(status, id)
	snapshot := m.snapshotLocked()
	listeners := m.listenersLocked()
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
	return true
}

func (m *Manager) abort(ctx context.Context, epoch uint64, step string, err error) {
	m.logger.InfoContext(ctx, "authentication sequence aborted",
		slog.String("step", step),
		logger.Error(err))
	m.commit(ctx, epoch, StatusUnauthenticated, nil)
}

func (m *Manager) currentWithEpoch() (Session, uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked(), m.epoch
}

func (m *Manager) setLocked(status Status, id *identity.Identity) {
	m.current = Session{Status: status, Identity: id}
	m.epoch++
}

func (m *Manager) snapshotLocked() Session {
	snapshot := Session{Status: m.current.Status}
	if m.current.Identity != nil {
		id := *m.current.Identity
		snapshot.Identity = &id
	}
	return snapshot
}

func (m *Manager) listenersLocked() []func(Session) {
	listeners := make([]func(Session), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		listeners = append(listeners, fn)
	}
	return listeners
}
