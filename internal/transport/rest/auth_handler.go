package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"cuentas-server/internal/domain"
	"cuentas-server/internal/logger"
)

type AuthHandler struct {
	svc domain.AuthService
	log logger.Logger
}

func NewAuthHandler(svc domain.AuthService, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		svc: svc,
		log: log,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}

	res, err := h.svc.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			respondMessage(w, http.StatusUnauthorized, "Credenciales incorrectas")
			return
		}

		h.log.Error("login failed", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Error en el servidor")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Inicio de sesión exitoso",
		"token":   res.AccessToken,
	})
}
