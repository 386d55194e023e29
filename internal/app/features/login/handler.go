// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dalemusser/clubhub/internal/app/orchestrator"
	userstore "github.com/dalemusser/clubhub/internal/app/store/users"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	Orch       *orchestrator.Orchestrator
	Log        *zap.Logger
}

func NewHandler(users *userstore.Store, sessionMgr *auth.SessionManager, orch *orchestrator.Orchestrator, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sessionMgr,
		Orch:       orch,
		Log:        logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// HandleLogin handles POST /login. A successful login opens a session
// and hands the principal to the orchestrator so user-scoped loading
// and realtime listeners can start.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u := h.Users.GetByEmail(ctx, email)
	if u == nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	su := auth.SessionUser{ID: u.ID, Name: u.Name, Role: u.Role}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.Log.Error("saving session", zap.String("user_id", u.ID), zap.Error(err))
		http.Error(w, "could not start session", http.StatusInternalServerError)
		return
	}

	h.Orch.SetIdentity(orchestrator.Identity{ID: u.ID, Name: u.Name, Role: u.Role})
	h.Log.Info("user logged in", zap.String("user_id", u.ID), zap.String("role", u.Role))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loginResponse{ID: u.ID, Name: u.Name, Role: u.Role})
}
