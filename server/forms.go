package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hume-connect/intake/schema"
	"github.com/hume-connect/intake/store"
)

func (s *Server) handleListForms(w http.ResponseWriter, r *http.Request) {
	forms, err := s.store.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if forms == nil {
		forms = []*schema.FormConfiguration{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"forms": forms,
		"count": len(forms),
	})
}

// handleGetForm returns the form configuration resolved for an
// application type — the one submissions of that type are validated
// against.
func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	appType := schema.ApplicationType(r.PathValue("type"))
	if !appType.Valid() {
		writeError(w, http.StatusBadRequest, "unknown application type "+string(appType))
		return
	}

	form, err := s.store.GetActiveFormByType(r.Context(), appType)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no active form configuration for type "+string(appType))
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (s *Server) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	var form schema.FormConfiguration
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON form configuration")
		return
	}

	if err := s.store.Create(r.Context(), &form); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, form)
}

func (s *Server) handleUpdateForm(w http.ResponseWriter, r *http.Request) {
	var form schema.FormConfiguration
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON form configuration")
		return
	}
	form.ID = r.PathValue("id")

	err := s.store.Update(r.Context(), &form)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "form configuration not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (s *Server) handleSetDefault(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := s.store.SetDefault(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "form configuration not found")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": id})
}
