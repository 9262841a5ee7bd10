package handler

import (
	"net/http"

	"lms/internal/api/v1/dto"
	"lms/internal/api/v1/response"
	"lms/internal/apperr"
	"lms/internal/middleware"
	"lms/internal/service"

	"github.com/rs/zerolog"
)

// UserHandler handles user profile endpoints
type UserHandler struct {
	userService service.UserService
	logger      zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger.With().Str("handler", "UserHandler").Logger(),
	}
}

// RegisterRoutes mounts user routes
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authenticate func(http.Handler) http.Handler) {
	mux.Handle("/users/me", authenticate(http.HandlerFunc(h.getMe)))
}

// getMe godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Success 200 {object} response.Body
// @Router /users/me [get]
func (h *UserHandler) getMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.NotFound(w, h.logger)
		return
	}
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		response.Err(w, h.logger, apperr.New(apperr.Unauthenticated, "unauthenticated, please login"))
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		response.Err(w, h.logger, err)
		return
	}
	response.OK(w, h.logger, http.StatusOK, "user profile fetched successfully", map[string]any{
		"user": dto.UserFromProfile(profile),
	})
}
