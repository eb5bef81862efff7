package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"accountsvc/pkg/audit"
	"accountsvc/pkg/claims"
	"accountsvc/pkg/user"
)

const recentEventsLimit = 20

type RegisterForm struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type UpdateForm struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type PasswordForm struct {
	Password string `json:"password"`
}

type FieldError struct {
	Location string `json:"location"`
	Param    string `json:"param"`
	Value    string `json:"value"`
	Msg      string `json:"msg"`
}

type AccountHandler struct {
	Service user.ServiceInterface
	Events  audit.Reader
	Logger  *slog.Logger
}

func NewAccountHandler(service user.ServiceInterface, events audit.Reader, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		Service: service,
		Events:  events,
		Logger:  logger,
	}
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, typeMessage, "missing required fields")
		return
	}

	u, err := h.Service.Register(req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if !errors.Is(err, user.ErrAlreadyExists) {
			h.Logger.Error("register", "error", err)
			writeError(w, http.StatusInternalServerError, typeError, msgInternalError)
			return
		}
		if ok := WriteResp(w, h.Logger, map[string]any{
			"errors": []FieldError{
				{
					Location: "body",
					Param:    "email",
					Value:    req.Email,
					Msg:      "already exists",
				},
			},
		}, http.StatusUnprocessableEntity); ok {
			h.Logger.Error("register", "error", err.Error())
		}
		return
	}

	if ok := writeJSON(w, h.Logger, u); ok {
		h.Logger.Info("register", "user", u.ID)
	}
}

func (h *AccountHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	u, err := h.Service.Get(id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusNotFound, typeMessage, err.Error())
			return
		}
		h.Logger.Error("get user", "error", err)
		writeError(w, http.StatusInternalServerError, typeError, msgInternalError)
		return
	}

	writeJSON(w, h.Logger, u)
}

func (h *AccountHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List()
	if err != nil {
		h.Logger.Error("list users", "error", err)
		writeError(w, http.StatusInternalServerError, typeError, msgInternalError)
		return
	}
	if users == nil {
		users = []*user.User{}
	}

	writeJSON(w, h.Logger, users)
}

func (h *AccountHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !h.ownRecord(w, r, id) {
		return
	}

	var req UpdateForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}

	u, err := h.Service.Update(id, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusNotFound, typeMessage, err.Error())
			return
		}
		h.Logger.Error("update user", "error", err)
		writeError(w, http.StatusInternalServerError, typeError, msgInternalError)
		return
	}

	if ok := writeJSON(w, h.Logger, u); ok {
		h.Logger.Info("user updated", "user", id)
	}
}

func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !h.ownRecord(w, r, id) {
		return
	}

	var req PasswordForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, typeMessage, "missing password")
		return
	}

	if err := h.Service.ChangePassword(id, req.Password); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusNotFound, typeMessage, err.Error())
			return
		}
		h.Logger.Error("change password", "error", err)
		writeError(w, http.StatusInternalServerError, typeError, msgInternalError)
		return
	}

	if ok := writeJSON(w, h.Logger, map[string]string{"message": "password updated"}); ok {
		h.Logger.Info("password changed", "user", id)
	}
}

func (h *AccountHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !h.ownRecord(w, r, id) {
		return
	}

	if err := h.Service.Delete(id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusNotFound, typeMessage, err.Error())
			return
		}
		h.Logger.Error("delete user", "error", err)
		writeError(w, http.StatusInternalServerError, typeError, msgInternalError)
		return
	}

	if ok := writeJSON(w, h.Logger, map[string]string{"message": "success"}); ok {
		h.Logger.Info("user deleted", "user", id)
	}
}

func (h *AccountHandler) RecentEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !h.ownRecord(w, r, id) {
		return
	}

	events, err := h.Events.RecentByUser(id, recentEventsLimit)
	if err != nil {
		h.Logger.Error("recent events", "error", err)
		writeError(w, http.StatusInternalServerError, typeError, msgInternalError)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}

	writeJSON(w, h.Logger, events)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw, ok := mux.Vars(r)[muxVarID]
	if !ok {
		writeError(w, http.StatusBadRequest, typeMessage, "invalid user id")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, typeMessage, "invalid user id")
		return 0, false
	}
	return id, true
}

// ownRecord restricts mutation to the authenticated user's own row.
func (h *AccountHandler) ownRecord(w http.ResponseWriter, r *http.Request, id int64) bool {
	var c claims.Claims
	if ok := getClaimsFromContext(w, r, &c); !ok {
		return false
	}
	if c.UserID != id {
		writeError(w, http.StatusForbidden, typeMessage, "forbidden")
		return false
	}
	return true
}
