// internal/app/orchestrator/orchestrator.go

// Package orchestrator owns the in-memory projection the portal renders
// and decides what to fetch, when, and for whom.
//
// Loading happens in three phases so the first page never waits on data
// it does not need: the critical phase (events, clubs, leadership) runs
// immediately, the secondary phase (annual events, news, external events)
// runs on a short timer after critical completes, and the user-scoped
// phase (notifications, applications) runs shortly after a session
// appears and is reset on sign-out. Each phase is guarded by an explicit
// state machine so that re-activation can never re-run a finished phase.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/clubhub/internal/app/realtime"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.uber.org/zap"
)

// Phase is the lifecycle of one loading phase. Phases only move forward
// (NotStarted → InFlight → Done); the sole exception is the user-scoped
// phase, which sign-out resets to NotStarted so the next session reloads.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseInFlight
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseInFlight:
		return "in-flight"
	case PhaseDone:
		return "done"
	default:
		return "not-started"
	}
}

// Default phase delays. The secondary delay keeps lazy content from
// competing with first paint; the user-data delay keeps sign-in snappy.
const (
	DefaultSecondaryDelay = 2000 * time.Millisecond
	DefaultUserDataDelay  = 1000 * time.Millisecond
)

// Identity is the signed-in principal as supplied by the session
// boundary. The orchestrator only reads it; session lifecycle lives
// elsewhere.
type Identity struct {
	ID   string
	Name string
	Role string
}

// Loader is the one-shot read surface of the document store.
type Loader interface {
	Events(ctx context.Context) []models.Event
	Clubs(ctx context.Context) []models.Club
	Leadership(ctx context.Context) []models.LeadershipMember
	AnnualEvents(ctx context.Context) []models.AnnualEvent
	News(ctx context.Context) []models.NewsArticle
	ExternalEvents(ctx context.Context) []models.ExternalEvent
	Notifications(ctx context.Context) []models.Notification
	Applications(ctx context.Context) []models.Application
}

// Listeners is the push-subscription surface.
type Listeners interface {
	Attach(ctx context.Context, userID string, h realtime.Hooks)
	Detach()
}

// Snapshot is the read-only projection handed to the presentation layer.
type Snapshot struct {
	Events         []models.Event            `json:"events"`
	Clubs          []models.Club             `json:"clubs"`
	Leadership     []models.LeadershipMember `json:"leadership"`
	AnnualEvents   []models.AnnualEvent      `json:"annual_events"`
	News           []models.NewsArticle      `json:"news"`
	ExternalEvents []models.ExternalEvent    `json:"external_events"`
	Notifications  []models.Notification     `json:"notifications"`
	Applications   []models.Application      `json:"applications"`
}

// Config wires an Orchestrator.
type Config struct {
	Loader         Loader
	Listeners      Listeners
	Logger         *zap.Logger
	EnableRealtime bool

	// Zero values take the defaults above.
	SecondaryDelay time.Duration
	UserDataDelay  time.Duration
}

// Orchestrator coordinates phased loading, listener lifecycle, and the
// in-memory projection. The projection is exclusively owned here: stores
// and listeners never hold shared mutable state, and every mutation of a
// slice is a wholesale replacement under the mutex.
type Orchestrator struct {
	loader         Loader
	listeners      Listeners
	log            *zap.Logger
	realtime       bool
	secondaryDelay time.Duration
	userDelay      time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	closed    bool
	critical  Phase
	secondary Phase
	userData  Phase
	identity  *Identity
	attached  bool
	data      Snapshot

	secondaryTimer *time.Timer
	userTimer      *time.Timer
}

func New(cfg Config) *Orchestrator {
	if cfg.SecondaryDelay <= 0 {
		cfg.SecondaryDelay = DefaultSecondaryDelay
	}
	if cfg.UserDataDelay <= 0 {
		cfg.UserDataDelay = DefaultUserDataDelay
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		loader:         cfg.Loader,
		listeners:      cfg.Listeners,
		log:            cfg.Logger,
		realtime:       cfg.EnableRealtime,
		secondaryDelay: cfg.SecondaryDelay,
		userDelay:      cfg.UserDataDelay,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Start kicks off the critical phase in the background. Calling it again
// is a no-op once the phase has left NotStarted.
func (o *Orchestrator) Start() {
	o.mu.Lock()
	if o.closed || o.critical != PhaseNotStarted {
		o.mu.Unlock()
		return
	}
	o.critical = PhaseInFlight
	o.mu.Unlock()

	go o.runCritical()
}

func (o *Orchestrator) runCritical() {
	ctx := o.ctx

	var (
		events     []models.Event
		clubs      []models.Club
		leadership []models.LeadershipMember
	)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); events = o.loader.Events(ctx) }()
	go func() { defer wg.Done(); clubs = o.loader.Clubs(ctx) }()
	go func() { defer wg.Done(); leadership = o.loader.Leadership(ctx) }()
	wg.Wait()

	o.mu.Lock()
	o.data.Events = events
	o.data.Clubs = clubs
	o.data.Leadership = leadership
	o.critical = PhaseDone
	if !o.closed && o.secondary == PhaseNotStarted && o.secondaryTimer == nil {
		o.secondaryTimer = time.AfterFunc(o.secondaryDelay, o.runSecondary)
	}
	o.mu.Unlock()

	o.log.Info("critical data loaded",
		zap.Int("events", len(events)),
		zap.Int("clubs", len(clubs)),
		zap.Int("leadership", len(leadership)))

	o.maybeAttach()
}

func (o *Orchestrator) runSecondary() {
	o.mu.Lock()
	if o.closed || o.secondary != PhaseNotStarted {
		o.mu.Unlock()
		return
	}
	o.secondary = PhaseInFlight
	o.mu.Unlock()

	ctx := o.ctx
	var (
		annual   []models.AnnualEvent
		news     []models.NewsArticle
		external []models.ExternalEvent
	)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); annual = o.loader.AnnualEvents(ctx) }()
	go func() { defer wg.Done(); news = o.loader.News(ctx) }()
	go func() { defer wg.Done(); external = o.loader.ExternalEvents(ctx) }()
	wg.Wait()

	o.mu.Lock()
	o.data.AnnualEvents = annual
	o.data.News = news
	o.data.ExternalEvents = external
	o.secondary = PhaseDone
	o.mu.Unlock()

	o.log.Info("secondary data loaded",
		zap.Int("annual_events", len(annual)),
		zap.Int("news", len(news)),
		zap.Int("external_events", len(external)))
}

// SetIdentity records a signed-in session. The user-scoped phase is
// scheduled once per session; repeated calls while it is pending or done
// do not schedule another fetch.
func (o *Orchestrator) SetIdentity(id Identity) {
	o.mu.Lock()
	if o.closed || id.ID == "" {
		o.mu.Unlock()
		return
	}
	changed := o.identity == nil || o.identity.ID != id.ID
	o.identity = &id
	if changed {
		// A different principal means the previous subscription set is
		// stale; maybeAttach will establish a fresh one.
		o.attached = false
	}
	if o.userData == PhaseNotStarted && o.userTimer == nil {
		o.userTimer = time.AfterFunc(o.userDelay, o.runUserData)
	}
	o.mu.Unlock()

	o.maybeAttach()
}

func (o *Orchestrator) runUserData() {
	o.mu.Lock()
	if o.closed || o.userData != PhaseNotStarted || o.identity == nil {
		o.mu.Unlock()
		return
	}
	o.userData = PhaseInFlight
	o.mu.Unlock()

	ctx := o.ctx
	var (
		notifications []models.Notification
		applications  []models.Application
	)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); notifications = o.loader.Notifications(ctx) }()
	go func() { defer wg.Done(); applications = o.loader.Applications(ctx) }()
	wg.Wait()

	o.mu.Lock()
	// Sign-out may have raced the fetch; in that case the slices were
	// already cleared and must stay cleared.
	if o.identity != nil {
		o.data.Notifications = notifications
		o.data.Applications = applications
		o.userData = PhaseDone
	}
	o.mu.Unlock()
}

// ClearIdentity handles sign-out: user-scoped data is dropped, the
// user-phase latch resets so the next sign-in reloads, and the listener
// set is torn down.
func (o *Orchestrator) ClearIdentity() {
	o.mu.Lock()
	o.identity = nil
	o.attached = false
	if o.userTimer != nil {
		o.userTimer.Stop()
		o.userTimer = nil
	}
	o.userData = PhaseNotStarted
	o.data.Notifications = nil
	o.data.Applications = nil
	o.mu.Unlock()

	o.listeners.Detach()
}

// maybeAttach establishes the listener set once all gates hold: critical
// data loaded, realtime enabled, and a session present. Attach/Detach are
// never called under the mutex because listener deliveries take it.
func (o *Orchestrator) maybeAttach() {
	o.mu.Lock()
	ok := !o.closed && o.realtime && o.critical == PhaseDone && o.identity != nil && !o.attached
	var userID string
	if ok {
		o.attached = true
		userID = o.identity.ID
	}
	ctx := o.ctx
	o.mu.Unlock()

	if !ok {
		return
	}
	o.listeners.Attach(ctx, userID, realtime.Hooks{
		OnEvents:        o.UpdateEvents,
		OnClubs:         o.UpdateClubs,
		OnNotifications: o.setNotifications,
		OnApplications:  o.UpdateApplications,
	})
}

// Close tears the orchestrator down: pending phase timers are cancelled,
// in-flight fetches are abandoned, and listeners are detached.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	if o.secondaryTimer != nil {
		o.secondaryTimer.Stop()
		o.secondaryTimer = nil
	}
	if o.userTimer != nil {
		o.userTimer.Stop()
		o.userTimer = nil
	}
	o.mu.Unlock()

	o.cancel()
	o.listeners.Detach()
}

// Snapshot returns the current projection. The slices it carries are
// never mutated in place (every update replaces them wholesale), so the
// shallow copy is safe to read without coordination.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.data
}

// Loading flags, one per phase.

func (o *Orchestrator) IsLoading() bool          { return o.phase(&o.critical) == PhaseInFlight }
func (o *Orchestrator) IsSecondaryLoading() bool { return o.phase(&o.secondary) == PhaseInFlight }
func (o *Orchestrator) IsUserDataLoading() bool  { return o.phase(&o.userData) == PhaseInFlight }

// Phases returns the three phase states (critical, secondary, user).
func (o *Orchestrator) Phases() (Phase, Phase, Phase) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.critical, o.secondary, o.userData
}

func (o *Orchestrator) phase(p *Phase) Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return *p
}

// Optimistic local updates from the presentation layer, and the targets
// of listener deliveries. Last write wins; these overwrite, never merge.

func (o *Orchestrator) UpdateEvents(events []models.Event) {
	o.mu.Lock()
	o.data.Events = events
	o.mu.Unlock()
}

func (o *Orchestrator) UpdateClubs(clubs []models.Club) {
	o.mu.Lock()
	o.data.Clubs = clubs
	o.mu.Unlock()
}

func (o *Orchestrator) UpdateApplications(apps []models.Application) {
	o.mu.Lock()
	o.data.Applications = apps
	o.mu.Unlock()
}

func (o *Orchestrator) setNotifications(ns []models.Notification) {
	o.mu.Lock()
	o.data.Notifications = ns
	o.mu.Unlock()
}
