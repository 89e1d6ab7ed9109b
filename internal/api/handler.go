package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abys-ai/abys-go/internal/agent"
	"github.com/abys-ai/abys-go/internal/auth"
	"github.com/abys-ai/abys-go/internal/chat"
	"github.com/abys-ai/abys-go/internal/logger"
)

// Handler exposes the user intents (login, logout, session management,
// send) as JSON endpoints. The presentation layer lives elsewhere; this is
// its ingress.
type Handler struct {
	agent *agent.Agent
}

func NewHandler(a *agent.Agent) *Handler {
	return &Handler{agent: a}
}

// Register installs all routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/login", h.handleLogin)
	mux.HandleFunc("/logout", h.handleLogout)
	mux.HandleFunc("/sessions", h.handleSessions)
	mux.HandleFunc("/sessions/select", h.handleSelect)
	mux.HandleFunc("/messages", h.handleMessage)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type selectRequest struct {
	ID string `json:"id"`
}

type messageRequest struct {
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
}

type sessionsResponse struct {
	Sessions []*chat.ChatSession `json:"sessions"`
	ActiveID string              `json:"active_id,omitempty"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	user, err := auth.Login(req.Email, req.Password, req.Name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.agent.Login(user)
	logger.L.Info("user signed in", "email", user.Email)
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.agent.Logout()
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, sessionsResponse{
			Sessions: h.agent.Sessions(),
			ActiveID: h.agent.ActiveID(),
		})
	case http.MethodPost:
		writeJSON(w, http.StatusCreated, h.agent.NewSession())
	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "Query parameter 'id' is required", http.StatusBadRequest)
			return
		}
		if err := h.agent.DeleteSession(id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.agent.SelectSession(req.ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	// A turn is never cancelled once issued, so the request context is not
	// threaded through: a dropped connection must not abort generation.
	msg, err := h.agent.SendTurn(context.Background(), req.SessionID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, agent.ErrEmptyMessage):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, agent.ErrSessionBusy):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L.Error("failed to encode response", "error", err)
	}
}
