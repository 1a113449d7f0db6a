package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/campusnest/accommodation-service/internal/domain"
	"github.com/campusnest/accommodation-service/internal/platform/logger"
	"github.com/campusnest/accommodation-service/internal/usecase"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	users  *usecase.UserUsecase
	logger *logger.Logger
}

func NewAuthHandler(users *usecase.UserUsecase, log *logger.Logger) *AuthHandler {
	return &AuthHandler{users: users, logger: log.Named("AuthHandler")}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, fmt.Errorf("%w: invalid JSON body", domain.ErrInvalidInput))
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Password, domain.Role(req.Role))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, toUserResponse(user))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, fmt.Errorf("%w: invalid JSON body", domain.ErrInvalidInput))
		return
	}

	token, user, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{Token: token, User: toUserResponse(user)})
}
