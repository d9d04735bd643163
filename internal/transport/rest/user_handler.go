package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"cuentas-server/internal/domain"
	"cuentas-server/internal/logger"
)

type UserHandler struct {
	svc domain.UserService
	log logger.Logger
}

func NewUserHandler(svc domain.UserService, log logger.Logger) *UserHandler {
	return &UserHandler{
		svc: svc,
		log: log,
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}

	user, err := h.svc.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidEmail):
			respondError(w, http.StatusBadRequest, "El correo electrónico no es válido.")
		case errors.Is(err, domain.ErrWeakPassword):
			respondError(w, http.StatusBadRequest, "La contraseña no cumple con los requisitos de seguridad.")
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			respondError(w, http.StatusBadRequest, "El correo electrónico ya está registrado.")
		case errors.Is(err, domain.ErrNameAlreadyExists):
			respondError(w, http.StatusBadRequest, "Ya existe un usuario con el mismo nombre y apellido.")
		default:
			h.log.Error("register failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Error al registrar el usuario")
		}
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) Index(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		h.log.Error("list users failed", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Error al obtener los usuarios")
		return
	}

	respondJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Show(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.svc.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			respondMessage(w, http.StatusNotFound, "Usuario no encontrado")
			return
		}

		h.log.Error("get user failed", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Error al obtener el usuario")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}

	defer r.Body.Close()

	var req domain.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}

	if errs := ValidateStruct(&req); len(errs) > 0 {
		respondJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}

	if err := h.svc.UpdateProfile(r.Context(), userID, req); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			respondMessage(w, http.StatusNotFound, "Usuario no encontrado")
		case errors.Is(err, domain.ErrNameAlreadyExists):
			respondMessage(w, http.StatusBadRequest, "Ya existe un usuario con ese nombre y apellido")
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			respondMessage(w, http.StatusBadRequest, "El email ya está registrado por otro usuario")
		case errors.Is(err, domain.ErrNoChange):
			respondMessage(w, http.StatusBadRequest, "No se realizaron cambios en el usuario")
		default:
			h.log.Error("update user failed", "error", err)
			respondMessage(w, http.StatusInternalServerError, "Error al actualizar usuario")
		}
		return
	}

	respondMessage(w, http.StatusOK, "Usuario actualizado correctamente")
}

func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}

	defer r.Body.Close()

	var req domain.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}

	if errs := ValidateStruct(&req); len(errs) > 0 {
		respondJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}

	if err := h.svc.ChangePassword(r.Context(), userID, req); err != nil {
		switch {
		case errors.Is(err, domain.ErrWeakPassword):
			respondMessage(w, http.StatusBadRequest, "La nueva contraseña no cumple con los requisitos de seguridad.")
		case errors.Is(err, domain.ErrUserNotFound):
			respondMessage(w, http.StatusNotFound, "Usuario no encontrado")
		case errors.Is(err, domain.ErrInvalidCredentials):
			respondMessage(w, http.StatusBadRequest, "La contraseña actual es incorrecta")
		default:
			h.log.Error("change password failed", "error", err)
			respondMessage(w, http.StatusInternalServerError, "Error al actualizar la contraseña")
		}
		return
	}

	respondMessage(w, http.StatusOK, "Contraseña actualizada correctamente")
}

func (h *UserHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			respondMessage(w, http.StatusNotFound, "Usuario no encontrado")
			return
		}

		h.log.Error("delete user failed", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Error al eliminar el usuario")
		return
	}

	respondMessage(w, http.StatusOK, "Usuario eliminado exitosamente")
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "ID de usuario inválido")
		return 0, false
	}
	return userID, true
}
