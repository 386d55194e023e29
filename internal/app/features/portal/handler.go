// internal/app/features/portal/handler.go
package portal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/clubhub/internal/app/orchestrator"
	applicationstore "github.com/dalemusser/clubhub/internal/app/store/applications"
	clubstore "github.com/dalemusser/clubhub/internal/app/store/clubs"
	contentstore "github.com/dalemusser/clubhub/internal/app/store/content"
	eventstore "github.com/dalemusser/clubhub/internal/app/store/events"
	userstore "github.com/dalemusser/clubhub/internal/app/store/users"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/workflow"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Handler serves the portal's JSON surface: the orchestrator's snapshot
// for reads, and the gateway write operations for coordinators.
type Handler struct {
	Orch     *orchestrator.Orchestrator
	Events   *eventstore.Store
	Clubs    *clubstore.Store
	Apps     *applicationstore.Store
	Users    *userstore.Store
	Content  *contentstore.Store
	Promoter *workflow.Promoter
	Log      *zap.Logger
}

func NewHandler(
	orch *orchestrator.Orchestrator,
	events *eventstore.Store,
	clubs *clubstore.Store,
	apps *applicationstore.Store,
	users *userstore.Store,
	content *contentstore.Store,
	promoter *workflow.Promoter,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Orch:     orch,
		Events:   events,
		Clubs:    clubs,
		Apps:     apps,
		Users:    users,
		Content:  content,
		Promoter: promoter,
		Log:      logger,
	}
}

// snapshotResponse is the read-only projection plus the loading flags.
type snapshotResponse struct {
	orchestrator.Snapshot
	IsLoading          bool `json:"is_loading"`
	IsSecondaryLoading bool `json:"is_secondary_loading"`
	IsUserDataLoading  bool `json:"is_user_data_loading"`
}

// Snapshot handles GET /portal/snapshot.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, snapshotResponse{
		Snapshot:           h.Orch.Snapshot(),
		IsLoading:          h.Orch.IsLoading(),
		IsSecondaryLoading: h.Orch.IsSecondaryLoading(),
		IsUserDataLoading:  h.Orch.IsUserDataLoading(),
	})
}

// ClubEvents handles GET /portal/clubs/{clubID}/events.
func (h *Handler) ClubEvents(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "clubID")
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	writeJSON(w, http.StatusOK, h.Events.ListByClub(ctx, clubID))
}

// createEventRequest is the body for POST .../events.
type createEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Venue       string    `json:"venue"`
	ImageURL    string    `json:"image_url"`
}

// CreateClubEvent handles POST /portal/clubs/{clubID}/events.
func (h *Handler) CreateClubEvent(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "clubID")
	if !h.canManage(r, clubID) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Events.Create(ctx, clubID, models.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Venue:       req.Venue,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		h.Log.Error("creating club event", zap.String("club_id", clubID), zap.Error(err))
		http.Error(w, "could not create event", http.StatusInternalServerError)
		return
	}

	// Optimistic refresh of the shared projection.
	h.Orch.UpdateEvents(h.Events.ListAll(ctx))

	writeJSON(w, http.StatusCreated, created)
}

// UpdateClubEvent handles PATCH /portal/clubs/{clubID}/events/{eventID}.
// The body is a partial document; a markAsPast key marks the event past.
func (h *Handler) UpdateClubEvent(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "clubID")
	eventID := chi.URLParam(r, "eventID")
	if !h.canManage(r, clubID) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var updates bson.M
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Events.Update(ctx, clubID, eventID, updates); err != nil {
		h.Log.Error("updating club event",
			zap.String("club_id", clubID), zap.String("event_id", eventID), zap.Error(err))
		http.Error(w, "could not update event", http.StatusInternalServerError)
		return
	}

	h.Orch.UpdateEvents(h.Events.ListAll(ctx))
	w.WriteHeader(http.StatusNoContent)
}

// UpdateClub handles PATCH /portal/clubs/{clubID}. The body is a partial
// club document; team, when present, must carry complete members.
func (h *Handler) UpdateClub(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "clubID")
	if !h.canManage(r, clubID) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var updates bson.M
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Clubs.Update(ctx, clubID, updates); err != nil {
		if errors.Is(err, clubstore.ErrInvalidTeamMember) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.Log.Error("updating club", zap.String("club_id", clubID), zap.Error(err))
		http.Error(w, "could not update club", http.StatusInternalServerError)
		return
	}

	h.Orch.UpdateClubs(h.Clubs.List(ctx))
	w.WriteHeader(http.StatusNoContent)
}

// ClubApplications handles GET /portal/clubs/{clubID}/applications,
// serving both storage layouts through the store's fallback policy.
func (h *Handler) ClubApplications(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "clubID")
	if !h.canManage(r, clubID) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	writeJSON(w, http.StatusOK, h.Apps.ListForClub(ctx, clubID))
}

// applyRequest is the body for POST .../applications.
type applyRequest struct {
	Message string `json:"message"`
}

// Apply handles POST /portal/clubs/{clubID}/applications: the signed-in
// user applies to join the club.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "clubID")
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Apps.CreateForClub(ctx, clubID, models.Application{
		UserID:   u.ID,
		UserName: u.Name,
		Message:  req.Message,
	})
	if err != nil {
		h.Log.Error("creating application", zap.String("club_id", clubID), zap.Error(err))
		http.Error(w, "could not create application", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// promoteResponse reports which workflow steps completed, so a caller can
// retry just the failed bookkeeping.
type promoteResponse struct {
	Accepted       bool   `json:"accepted"`
	TeamUpdated    bool   `json:"team_updated"`
	TeamError      string `json:"team_error,omitempty"`
	ProfileUpdated bool   `json:"profile_updated"`
	ProfileError   string `json:"profile_error,omitempty"`
}

// AcceptApplication handles POST .../applications/{appID}/accept.
func (h *Handler) AcceptApplication(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "clubID")
	appID := chi.URLParam(r, "appID")
	if !h.canManage(r, clubID) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	res, err := h.Promoter.AcceptAndPromote(ctx, clubID, appID)
	if err != nil {
		if errors.Is(err, applicationstore.ErrNotFound) || errors.Is(err, workflow.ErrApplicationNotFound) {
			http.Error(w, "application not found", http.StatusNotFound)
			return
		}
		h.Log.Error("accepting application",
			zap.String("club_id", clubID), zap.String("application_id", appID), zap.Error(err))
		http.Error(w, "could not accept application", http.StatusInternalServerError)
		return
	}

	h.Orch.UpdateClubs(h.Clubs.List(ctx))
	h.Orch.UpdateApplications(h.Apps.List(ctx))

	resp := promoteResponse{
		Accepted:       res.Accepted,
		TeamUpdated:    res.Team.Done,
		ProfileUpdated: res.Profile.Done,
	}
	if res.Team.Err != nil {
		resp.TeamError = res.Team.Err.Error()
	}
	if res.Profile.Err != nil {
		resp.ProfileError = res.Profile.Err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// RejectApplication handles POST .../applications/{appID}/reject.
func (h *Handler) RejectApplication(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "clubID")
	appID := chi.URLParam(r, "appID")
	if !h.canManage(r, clubID) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Apps.SetStatus(ctx, clubID, appID, models.ApplicationRejected); err != nil {
		if errors.Is(err, applicationstore.ErrNotFound) {
			http.Error(w, "application not found", http.StatusNotFound)
			return
		}
		h.Log.Error("rejecting application",
			zap.String("club_id", clubID), zap.String("application_id", appID), zap.Error(err))
		http.Error(w, "could not reject application", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateProfile handles PATCH /portal/users/{userID}/profile. Users may
// update themselves; admins may update anyone.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if u.ID != userID && u.Role != models.RoleAdmin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var updates bson.M
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, userID, updates); err != nil {
		h.Log.Error("updating profile", zap.String("user_id", userID), zap.Error(err))
		http.Error(w, "could not update profile", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Student handles GET /portal/students/{rollNumber}, a case-insensitive
// roll-number lookup.
func (h *Handler) Student(w http.ResponseWriter, r *http.Request) {
	roll := chi.URLParam(r, "rollNumber")
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	student := h.Users.GetByRollNumber(ctx, roll)
	if student == nil {
		http.Error(w, "student not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

// canManage reports whether the request's user may manage the club:
// admins always, contributors only for clubs they manage.
func (h *Handler) canManage(r *http.Request, clubID string) bool {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return false
	}
	if u.Role == models.RoleAdmin {
		return true
	}
	if u.Role != models.RoleContributor {
		return false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	profile := h.Users.GetByID(ctx, u.ID)
	if profile == nil {
		return false
	}
	for _, id := range profile.ManagedClubIDs {
		if id == clubID {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
