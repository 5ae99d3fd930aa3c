package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/iuliopime/bmat/internal/models"
	"github.com/iuliopime/bmat/internal/repositories"
	"github.com/iuliopime/bmat/internal/shared"
	"github.com/iuliopime/bmat/internal/tasks"
)

// API implements the JSON request surface over the submission and playlist
// engines. It satisfies [Handler].
type API struct {
	submissions *tasks.Submissions
	manager     *tasks.PlaylistManager
	tracks      *repositories.TrackRepository
	teams       *repositories.NameRepository
	roles       *repositories.NameRepository
	fallbacks   shared.FallbacksConfig
	logger      *log.Logger
}

// NewAPI creates the API handler over the given engines and repositories.
func NewAPI(submissions *tasks.Submissions, manager *tasks.PlaylistManager,
	tracks *repositories.TrackRepository, teams, roles *repositories.NameRepository,
	fallbacks shared.FallbacksConfig, logger *log.Logger) *API {
	return &API{
		submissions: submissions,
		manager:     manager,
		tracks:      tracks,
		teams:       teams,
		roles:       roles,
		fallbacks:   fallbacks,
		logger:      logger,
	}
}

// Register binds all API routes on the router.
func (a *API) Register(r Router) {
	r.Handle(http.MethodPost, "/api/tracks", http.HandlerFunc(a.SubmitTrack))
	r.Handle(http.MethodGet, "/api/tracks", http.HandlerFunc(a.ListTracks))
	r.Handle(http.MethodPost, "/api/playlists", http.HandlerFunc(a.BuildPlaylist))
	r.Handle(http.MethodGet, "/api/teams", http.HandlerFunc(a.listNames(a.teams, a.fallbacks.Teams)))
	r.Handle(http.MethodPost, "/api/teams", http.HandlerFunc(a.addName(a.teams, "Team")))
	r.Handle(http.MethodGet, "/api/roles", http.HandlerFunc(a.listNames(a.roles, a.fallbacks.Roles)))
	r.Handle(http.MethodPost, "/api/roles", http.HandlerFunc(a.addName(a.roles, "Role")))
	r.Handle(http.MethodGet, "/health", http.HandlerFunc(a.Health))
}

type submitRequest struct {
	URL  string          `json:"url"`
	User models.SoftUser `json:"user"`
}

// SubmitTrack handles POST /api/tracks.
//
// Resolves the submitted URL across platforms, persists the track and
// triggers the cohort fan-out. The response never waits on the fan-out.
func (a *API) SubmitTrack(w http.ResponseWriter, r *http.Request) {
	var body submitRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.writeError(w, shared.ErrValidation)
		return
	}

	track, err := a.submissions.Submit(r.Context(), nil, body.URL, body.User)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]any{"item": track})
}

// ListTracks handles GET /api/tracks with optional team/role filters,
// newest first.
func (a *API) ListTracks(w http.ResponseWriter, r *http.Request) {
	cohort := models.CohortFrom(r.URL.Query().Get("team"), r.URL.Query().Get("role"))

	items, err := a.tracks.List(cohort)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if items == nil {
		items = []*models.Track{}
	}

	a.writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

type playlistRequest struct {
	Team string `json:"team"`
	Role string `json:"role"`
}

// BuildPlaylist handles POST /api/playlists: find-or-create the cohort's
// playlist and return it with per-platform deep links.
func (a *API) BuildPlaylist(w http.ResponseWriter, r *http.Request) {
	var body playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.writeError(w, shared.ErrValidation)
		return
	}

	result, err := a.manager.FindOrCreate(r.Context(), models.CohortFrom(body.Team, body.Role))
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]any{"item": result.Playlist, "links": result.Links})
}

// listNames serves GET /api/teams and GET /api/roles, falling back to the
// configured static list when storage is unavailable.
func (a *API) listNames(repo *repositories.NameRepository, fallback []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := repo.List()
		if err != nil {
			a.logger.Warn("falling back to static names", "err", err)
			a.writeJSON(w, http.StatusOK, map[string]any{"items": fallback})
			return
		}
		if names == nil {
			names = []string{}
		}
		a.writeJSON(w, http.StatusOK, map[string]any{"items": names})
	}
}

type nameRequest struct {
	Name string `json:"name"`
}

// addName serves POST /api/teams and POST /api/roles.
func (a *API) addName(repo *repositories.NameRepository, label string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body nameRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			a.writeError(w, shared.ErrValidation)
			return
		}

		name := strings.TrimSpace(body.Name)
		if name == "" {
			a.writeJSON(w, http.StatusBadRequest, map[string]any{"error": label + " name is required"})
			return
		}

		if err := repo.Add(name); err != nil {
			a.writeError(w, err)
			return
		}

		a.writeJSON(w, http.StatusOK, map[string]any{"name": name})
	}
}

// Health handles GET /health.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("failed to encode response", "err", err)
	}
}

// writeError maps the error taxonomy onto status codes: validation and
// empty-cohort conditions are client errors, platform failures on the base
// resolution are bad-gateway, everything else is a server error.
func (a *API) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrNoTracks):
		status = http.StatusBadRequest
	case errors.Is(err, shared.ErrPlatform):
		status = http.StatusBadGateway
	}

	a.logger.Error("request failed", "status", status, "err", err)
	a.writeJSON(w, status, map[string]any{"error": err.Error()})
}
