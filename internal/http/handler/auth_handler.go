package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/forumdash/amo-analytics-api/internal/domain"
	"github.com/forumdash/amo-analytics-api/internal/service"
	"go.uber.org/zap"
)

// Authenticator checks the dashboard credentials
type Authenticator interface {
	Login(username, password string) (*domain.LoginResponse, error)
}

type AuthHandler struct {
	authService Authenticator
	logger      *zap.Logger
}

func NewAuthHandler(authService Authenticator, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login godoc
// @Summary Dashboard login
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} domain.LoginResponse
// @Failure 401 {object} domain.SuccessResponse
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondJSON(w, http.StatusUnauthorized, domain.SuccessResponse{Success: false})
			return
		}
		h.logger.Error("failed to complete login", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to complete login")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
