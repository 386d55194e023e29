// internal/app/realtime/listeners.go

// Package realtime keeps the orchestrator's projection fresh by watching
// the document store and pushing whole-collection snapshots.
//
// The push primitive is a Mongo change stream per watched collection. A
// change stream delivers deltas, but the contract upstream wants full
// result sets, so every delivered change triggers a re-read of the whole
// query and the hook receives a complete replacement slice. Replace, not
// merge: the last delivered snapshot wins.
package realtime

import (
	"context"
	"sync"

	applicationstore "github.com/dalemusser/clubhub/internal/app/store/applications"
	clubstore "github.com/dalemusser/clubhub/internal/app/store/clubs"
	contentstore "github.com/dalemusser/clubhub/internal/app/store/content"
	eventstore "github.com/dalemusser/clubhub/internal/app/store/events"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// State of the listener set.
type State int

const (
	Detached State = iota
	Attached
)

// Hooks receive full replacement snapshots. A nil hook disables that
// listener.
type Hooks struct {
	OnEvents        func([]models.Event)
	OnClubs         func([]models.Club)
	OnNotifications func([]models.Notification)
	OnApplications  func([]models.Application)
}

// Manager owns at most one active subscription set: events and clubs for
// everyone, plus notifications and applications scoped to the signed-in
// user. Attaching a new set always tears down the previous one first, and
// Detach never leaves a stream dangling.
type Manager struct {
	db      *mongo.Database
	events  *eventstore.Store
	clubs   *clubstore.Store
	apps    *applicationstore.Store
	content *contentstore.Store
	log     *zap.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewManager(
	db *mongo.Database,
	events *eventstore.Store,
	clubs *clubstore.Store,
	apps *applicationstore.Store,
	content *contentstore.Store,
	logger *zap.Logger,
) *Manager {
	return &Manager{
		db:      db,
		events:  events,
		clubs:   clubs,
		apps:    apps,
		content: content,
		log:     logger,
	}
}

// State reports whether a subscription set is currently active.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Attach opens the subscription set for the given user. Each listener
// first delivers the current result set, then re-delivers it on every
// store change until Detach or context cancellation. userID may be empty
// only in theory; the orchestrator gates attachment on a present session.
func (m *Manager) Attach(ctx context.Context, userID string, h Hooks) {
	m.Detach()

	m.mu.Lock()
	defer m.mu.Unlock()

	sctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.state = Attached
	setID := uuid.NewString()
	m.log.Info("attaching realtime listeners",
		zap.String("subscription", setID), zap.String("user_id", userID))

	if h.OnEvents != nil {
		m.startWatcher(sctx, setID, "club_events", func(ctx context.Context) {
			h.OnEvents(m.events.ListAll(ctx))
		})
	}
	if h.OnClubs != nil {
		m.startWatcher(sctx, setID, "clubs", func(ctx context.Context) {
			h.OnClubs(m.clubs.List(ctx))
		})
	}
	if userID != "" && h.OnNotifications != nil {
		m.startWatcher(sctx, setID, "notifications", func(ctx context.Context) {
			h.OnNotifications(m.content.NotificationsForUser(ctx, userID))
		})
	}
	if userID != "" && h.OnApplications != nil {
		m.startWatcher(sctx, setID, "club_applications", func(ctx context.Context) {
			h.OnApplications(m.apps.ListForUser(ctx, userID))
		})
	}
}

// Detach cancels the active subscription set and waits for its watchers
// to exit. Safe to call when already detached.
func (m *Manager) Detach() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.state = Detached
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

func (m *Manager) startWatcher(ctx context.Context, setID, collection string, deliver func(context.Context)) {
	m.wg.Add(1)
	go m.watch(ctx, setID, collection, deliver)
}

func (m *Manager) watch(ctx context.Context, setID, collection string, deliver func(context.Context)) {
	defer m.wg.Done()

	// Initial snapshot, matching the store's live-query contract of
	// delivering the current result set on subscribe.
	deliver(ctx)

	stream, err := m.db.Collection(collection).Watch(ctx, mongo.Pipeline{})
	if err != nil {
		if ctx.Err() == nil {
			m.log.Error("opening change stream",
				zap.String("subscription", setID),
				zap.String("collection", collection),
				zap.Error(err))
		}
		return
	}
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		deliver(ctx)
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		m.log.Warn("change stream ended",
			zap.String("subscription", setID),
			zap.String("collection", collection),
			zap.Error(err))
	}
}
