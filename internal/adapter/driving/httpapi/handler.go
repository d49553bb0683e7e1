package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pion/webrtc/v4"

	"github.com/peerline/peerline/internal/core/port"
	"github.com/peerline/peerline/internal/core/service"
)

type Handler struct {
	Accounts   *service.AccountService
	Invites    *service.InviteService
	Dispatcher *service.EventDispatcher

	// Verifier gates the WebSocket and invite endpoints. Nil disables
	// authentication (development).
	Verifier port.TokenVerifier

	ICEServers []webrtc.ICEServer

	allowedOrigins []string
}

func NewHandler(
	accounts *service.AccountService,
	invites *service.InviteService,
	dispatcher *service.EventDispatcher,
	verifier port.TokenVerifier,
	iceServers []webrtc.ICEServer,
	allowedOrigins []string,
) *Handler {
	return &Handler{
		Accounts:       accounts,
		Invites:        invites,
		Dispatcher:     dispatcher,
		Verifier:       verifier,
		ICEServers:     iceServers,
		allowedOrigins: allowedOrigins,
	}
}

func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Get("/profile/{id}", h.Profile)
	r.Post("/calls/invite", h.InviteCall)
	r.Get("/ice", h.ICE)
	r.Get("/healthz", h.Health)

	r.Get("/ws", h.ServeWS)

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
