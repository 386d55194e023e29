// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	healthfeature "github.com/dalemusser/clubhub/internal/app/features/health"
	loginfeature "github.com/dalemusser/clubhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/clubhub/internal/app/features/logout"
	portalfeature "github.com/dalemusser/clubhub/internal/app/features/portal"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// ClubHub mounts the health endpoint, the login/logout pair, and the
// portal JSON surface that serves the orchestrator's snapshot and the
// club-management write operations.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.ClubHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(state.Users, sessionMgr, state.Orch, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, state.Orch, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Portal: snapshot reads, club management, applications, profiles
	portalHandler := portalfeature.NewHandler(
		state.Orch,
		state.Events,
		state.Clubs,
		state.Apps,
		state.Users,
		state.Content,
		state.Promoter,
		logger,
	)
	r.Mount("/portal", portalfeature.Routes(portalHandler, sessionMgr))

	return r, nil
}
