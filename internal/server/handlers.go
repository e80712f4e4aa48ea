package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

type createApplicationRequest struct {
	Name string `json:"name"`
}

type createMessageRequest struct {
	Body string `json:"body"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := s.monitor.Check(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type reconcileEntry struct {
	Scope     string `json:"scope"`
	Before    int64  `json:"before"`
	After     int64  `json:"after"`
	Corrected bool   `json:"corrected"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	results, err := s.reconciler.ReconcileAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	entries := make([]reconcileEntry, 0, len(results))
	for _, res := range results {
		e := reconcileEntry{
			Scope:     res.Scope,
			Before:    res.Before,
			After:     res.After,
			Corrected: res.Corrected,
		}
		if res.Err != nil {
			e.Error = res.Err.Error()
		}
		entries = append(entries, e)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": entries})
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var req createApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", false)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", false)
		return
	}

	app, err := s.svc.CreateApplication(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.hub.Publish(MsgApplicationCreate, ApplicationEventPayload{Token: app.Token, Name: app.Name})
	writeJSON(w, http.StatusCreated, app)
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := s.svc.ListApplications(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	app, err := s.svc.GetApplication(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleRenameApplication(w http.ResponseWriter, r *http.Request) {
	var req createApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", false)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", false)
		return
	}

	if err := s.svc.RenameApplication(r.Context(), chi.URLParam(r, "token"), req.Name); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	c, err := s.svc.CreateChat(r.Context(), token)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.hub.Publish(MsgChatCreate, ChatEventPayload{
		ApplicationToken: token,
		Number:           c.Number,
		CreatedAt:        c.CreatedAt,
	})
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := s.svc.ListChats(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chats)
}

func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request) {
	number, ok := chatNumber(w, r)
	if !ok {
		return
	}
	c, err := s.svc.GetChat(r.Context(), chi.URLParam(r, "token"), number)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleCreateMessage(w http.ResponseWriter, r *http.Request) {
	number, ok := chatNumber(w, r)
	if !ok {
		return
	}

	var req createMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", false)
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		writeError(w, http.StatusBadRequest, "body is required", false)
		return
	}

	token := chi.URLParam(r, "token")
	m, err := s.svc.CreateMessage(r.Context(), token, number, req.Body)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.hub.Publish(MsgMessageCreate, MessageEventPayload{
		ApplicationToken: token,
		ChatNumber:       number,
		Number:           m.Number,
		Body:             m.Body,
		CreatedAt:        m.CreatedAt,
	})
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	number, ok := chatNumber(w, r)
	if !ok {
		return
	}
	msgs, err := s.svc.ListMessages(r.Context(), chi.URLParam(r, "token"), number)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func chatNumber(w http.ResponseWriter, r *http.Request) (int64, bool) {
	n, err := strconv.ParseInt(chi.URLParam(r, "number"), 10, 64)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "invalid chat number", false)
		return 0, false
	}
	return n, true
}
