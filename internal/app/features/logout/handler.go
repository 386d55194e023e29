// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/orchestrator"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	SessionMgr *auth.SessionManager
	Orch       *orchestrator.Orchestrator
	Log        *zap.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, orch *orchestrator.Orchestrator, logger *zap.Logger) *Handler {
	return &Handler{
		SessionMgr: sessionMgr,
		Orch:       orch,
		Log:        logger,
	}
}

// HandleLogout handles POST /logout. The session cookie is cleared and
// the orchestrator drops the principal, which detaches listeners and
// clears user-scoped data.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("clearing session", zap.Error(err))
	}
	h.Orch.ClearIdentity()
	w.WriteHeader(http.StatusNoContent)
}
