// internal/app/orchestrator/loader.go
package orchestrator

import (
	"context"

	applicationstore "github.com/dalemusser/clubhub/internal/app/store/applications"
	clubstore "github.com/dalemusser/clubhub/internal/app/store/clubs"
	contentstore "github.com/dalemusser/clubhub/internal/app/store/content"
	eventstore "github.com/dalemusser/clubhub/internal/app/store/events"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

// storeLoader is the production Loader, delegating to the document store
// gateway packages.
type storeLoader struct {
	events  *eventstore.Store
	clubs   *clubstore.Store
	apps    *applicationstore.Store
	content *contentstore.Store
}

// NewStoreLoader builds the Loader used outside of tests.
func NewStoreLoader(
	events *eventstore.Store,
	clubs *clubstore.Store,
	apps *applicationstore.Store,
	content *contentstore.Store,
) Loader {
	return &storeLoader{events: events, clubs: clubs, apps: apps, content: content}
}

func (l *storeLoader) Events(ctx context.Context) []models.Event { return l.events.ListAll(ctx) }
func (l *storeLoader) Clubs(ctx context.Context) []models.Club   { return l.clubs.List(ctx) }

func (l *storeLoader) Leadership(ctx context.Context) []models.LeadershipMember {
	return l.content.Leadership(ctx)
}

func (l *storeLoader) AnnualEvents(ctx context.Context) []models.AnnualEvent {
	return l.content.AnnualEvents(ctx)
}

func (l *storeLoader) News(ctx context.Context) []models.NewsArticle {
	return l.content.News(ctx)
}

func (l *storeLoader) ExternalEvents(ctx context.Context) []models.ExternalEvent {
	return l.content.ExternalEvents(ctx)
}

func (l *storeLoader) Notifications(ctx context.Context) []models.Notification {
	return l.content.Notifications(ctx)
}

func (l *storeLoader) Applications(ctx context.Context) []models.Application {
	return l.apps.List(ctx)
}
