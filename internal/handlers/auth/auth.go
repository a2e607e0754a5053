package auth

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/msv-stihl/limpeza/internal/pkg/response"
	services "github.com/msv-stihl/limpeza/internal/services/auth"
)

const adminRole = "admin"

type AuthHandler struct {
	admin      services.Admin
	jwtService *services.JWTService
	logger     *zap.Logger
}

func NewAuthHandler(admin services.Admin, jwtService *services.JWTService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{admin: admin, jwtService: jwtService, logger: logger}
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var loginData struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&loginData); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	if !h.admin.Verify(loginData.Username, loginData.Password) {
		h.logger.Warn("rejected login", zap.String("username", loginData.Username))
		response.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.jwtService.GenerateToken(loginData.Username, adminRole)
	if err != nil {
		h.logger.Error("generate token", zap.Error(err))
		response.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	response.RespondWithJSON(w, http.StatusOK, map[string]string{
		"token": token,
		"role":  adminRole,
	})
}
