package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/peerline/peerline/internal/core/domain"
	"github.com/peerline/peerline/internal/core/port"
	"github.com/peerline/peerline/internal/core/service"
)

type userDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Avatar   string `json:"avatar"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Accounts.Register(r.Context(), req.Name, req.Email, req.Password, req.Avatar)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "user": toUserDTO(user)})
	case errors.Is(err, domain.ErrMissingFields), errors.Is(err, domain.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, port.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "email already registered")
	default:
		log.Error().Err(err).Msg("Register failed")
		writeError(w, http.StatusInternalServerError, "server error")
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.Accounts.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"token":   token,
			"user":    toUserDTO(user),
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	default:
		log.Error().Err(err).Msg("Login failed")
		writeError(w, http.StatusInternalServerError, "server error")
	}
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.Accounts.Profile(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": toUserDTO(user)})
	case errors.Is(err, port.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	default:
		log.Error().Err(err).Msg("Profile fetch failed")
		writeError(w, http.StatusInternalServerError, "server error")
	}
}

// InviteCall rings another user out-of-band. Always accepted when the
// request is well formed: delivery is best-effort and asynchronous.
func (h *Handler) InviteCall(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var req struct {
		CalleeID string `json:"callee_id"`
		RoomID   string `json:"room_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RoomID == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	callee, err := domain.ParseUserID(req.CalleeID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid callee id")
		return
	}

	if err := h.Invites.Invite(r.Context(), caller, callee, domain.RoomID(req.RoomID)); err != nil {
		log.Error().Err(err).Msg("Invite failed")
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"success": true})
}

func (h *Handler) ICE(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"iceServers": h.ICEServers})
}

// authenticate resolves the caller's identity from the bearer token.
// With auth disabled every caller is anonymous (zero UserID).
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request) (domain.UserID, bool) {
	if h.Verifier == nil {
		return domain.UserID{}, true
	}

	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if raw == "" {
		writeError(w, http.StatusUnauthorized, "missing token")
		return domain.UserID{}, false
	}

	id, err := h.Verifier.Verify(raw)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return domain.UserID{}, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "message": msg})
}
