// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/clubhub/internal/app/orchestrator"
	"github.com/dalemusser/clubhub/internal/app/realtime"
	applicationstore "github.com/dalemusser/clubhub/internal/app/store/applications"
	clubstore "github.com/dalemusser/clubhub/internal/app/store/clubs"
	contentstore "github.com/dalemusser/clubhub/internal/app/store/content"
	eventstore "github.com/dalemusser/clubhub/internal/app/store/events"
	userstore "github.com/dalemusser/clubhub/internal/app/store/users"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/workflow"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// appState bundles the long-lived objects built during Startup. The
// stores are stateless wrappers over collections; the orchestrator owns
// background timers and listener goroutines and must be closed on
// shutdown.
type appState struct {
	Events   *eventstore.Store
	Clubs    *clubstore.Store
	Apps     *applicationstore.Store
	Users    *userstore.Store
	Content  *contentstore.Store
	Promoter *workflow.Promoter
	Orch     *orchestrator.Orchestrator
}

// state is populated in Startup and consumed by BuildHandler and
// Shutdown. WAFFLE runs these hooks sequentially, so no locking.
var state appState

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// ClubHub builds the stores and the data orchestrator here and kicks off
// the critical load phase so public data is warm before the first
// request arrives.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.ConfigureFromEnv()

	db := deps.ClubHubMongoDatabase

	state.Events = eventstore.New(db, logger)
	state.Clubs = clubstore.New(db, logger)
	state.Apps = applicationstore.New(db, logger)
	state.Users = userstore.New(db, logger)
	state.Content = contentstore.New(db, logger)

	state.Promoter = workflow.NewPromoter(state.Apps, state.Clubs, state.Users, logger)

	listeners := realtime.NewManager(db, state.Events, state.Clubs, state.Apps, state.Content, logger)

	state.Orch = orchestrator.New(orchestrator.Config{
		Loader:         orchestrator.NewStoreLoader(state.Events, state.Clubs, state.Apps, state.Content),
		Listeners:      listeners,
		Logger:         logger,
		EnableRealtime: appCfg.EnableRealtime,
		SecondaryDelay: appCfg.SecondaryDelay,
		UserDataDelay:  appCfg.UserDataDelay,
	})
	state.Orch.Start()

	return nil
}
