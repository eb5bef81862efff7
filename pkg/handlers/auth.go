package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"accountsvc/pkg/auth"
	"accountsvc/pkg/token"
)

type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionForm struct {
	Session string `json:"session"`
}

type AuthHandler struct {
	Service auth.ServiceInterface
	Logger  *slog.Logger
}

func NewAuthHandler(service auth.ServiceInterface, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		Service: service,
		Logger:  logger,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}

	res, err := h.Service.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			writeError(w, http.StatusBadRequest, typeMessage, err.Error())
		case errors.Is(err, auth.ErrUserNotFound):
			writeError(w, http.StatusNotFound, typeMessage, err.Error())
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, typeMessage, "invalid password")
		default:
			h.Logger.Error("login", "error", err)
			writeError(w, http.StatusInternalServerError, typeError, msgInternalError)
		}
		return
	}

	if ok := writeJSON(w, h.Logger, res); ok {
		h.Logger.Info("login", "user", res.User.ID)
	}
}

func (h *AuthHandler) VerifySession(w http.ResponseWriter, r *http.Request) {
	var req SessionForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}
	if req.Session == "" {
		writeError(w, http.StatusBadRequest, typeMessage, "missing session")
		return
	}

	res, err := h.Service.VerifySession(req.Session)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidSession),
			errors.Is(err, auth.ErrSessionExpired),
			errors.Is(err, auth.ErrSessionNotFound),
			errors.Is(err, auth.ErrUserNotFound):
			writeError(w, http.StatusUnauthorized, typeMessage, err.Error())
		default:
			h.Logger.Error("verify session", "error", err)
			writeError(w, http.StatusInternalServerError, typeError, msgInternalError)
		}
		return
	}

	writeJSON(w, h.Logger, res)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req SessionForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}
	if req.Session == "" {
		writeError(w, http.StatusBadRequest, typeMessage, "missing session")
		return
	}

	if err := h.Service.Logout(req.Session); err != nil {
		h.Logger.Error("logout", "error", err)
		writeError(w, http.StatusInternalServerError, typeError, msgInternalError)
		return
	}

	writeJSON(w, h.Logger, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		writeError(w, http.StatusUnauthorized, typeMessage, msgUnauthorized)
		return
	}

	res, err := h.Service.VerifyToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		if errors.Is(err, token.ErrInvalidToken) {
			writeError(w, http.StatusUnauthorized, typeMessage, msgUnauthorized)
			return
		}
		h.Logger.Error("verify token", "error", err)
		writeError(w, http.StatusInternalServerError, typeError, msgInternalError)
		return
	}

	writeJSON(w, h.Logger, res)
}
