package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hume-connect/intake/normalize"
	"github.com/hume-connect/intake/schema"
	"github.com/hume-connect/intake/store"
	"github.com/hume-connect/intake/validate"
)

// maxBodyBytes bounds submission payloads.
const maxBodyBytes = 1 << 20

// sectionKeys are the nested containers a frontend may group field values
// under; their contents are flattened to top-level field IDs before
// validation.
var sectionKeys = []string{"personalInfo", "businessInfo", "requirements"}

// validationErrorResponse is the structured rejection body.
type validationErrorResponse struct {
	Success           bool             `json:"success"`
	Error             string           `json:"error"`
	ErrorType         string           `json:"errorType"`
	Details           []string         `json:"details"`
	RawDetails        []validate.Issue `json:"rawDetails"`
	Warnings          []validate.Issue `json:"warnings,omitempty"`
	FormConfiguration schema.Summary   `json:"formConfiguration"`
}

// handleSubmit is the intake pipeline: resolve the form configuration for
// the application type, validate the flattened payload, and persist the
// normalized result.
//
// Form resolution is three-tier by design: an existing active form, else
// a freshly synthesized baseline form, else no form at all — in which
// case dynamic validation is skipped rather than failing the submission.
// A missing configuration must never cost an applicant their submission.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	appType := schema.ApplicationType(r.PathValue("type"))
	if !appType.Valid() {
		writeError(w, http.StatusBadRequest, "unknown application type "+string(appType))
		return
	}

	var body map[string]any
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON object")
		return
	}

	data := flattenSections(body)
	form := s.resolveForm(r, appType)
	if form == nil {
		s.acceptUnvalidated(w, r, appType, data)
		return
	}

	result := validate.Validate(data, form)
	if !result.IsValid() {
		writeJSON(w, http.StatusBadRequest, validationErrorResponse{
			Success:           false,
			Error:             "validation failed",
			ErrorType:         "VALIDATION_ERROR",
			Details:           result.Messages(),
			RawDetails:        result.Errors,
			Warnings:          result.Warnings,
			FormConfiguration: form.Summarize(),
		})
		return
	}

	normalized := normalize.Normalize(data, form)
	sub := &store.Submission{
		ApplicationType: appType,
		FormID:          form.ID,
		FormVersion:     form.Version,
		Data:            normalized,
		Warnings:        result.Warnings,
	}
	if err := s.store.SaveSubmission(r.Context(), sub); err != nil {
		s.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":           true,
		"submissionId":      sub.ID,
		"responseData":      normalized,
		"formConfiguration": form.Summarize(),
		"formVersion":       form.Version,
		"validationMetadata": map[string]any{
			"validatedAt": time.Now().UTC().Format(time.RFC3339),
			"fieldCount":  len(form.Fields),
			"warnings":    result.Warnings,
			"skipped":     false,
		},
	})
}

// resolveForm returns the form configuration to validate against, or nil
// when validation must be bypassed.
func (s *Server) resolveForm(r *http.Request, t schema.ApplicationType) *schema.FormConfiguration {
	form, err := s.store.GetActiveFormByType(r.Context(), t)
	if err == nil {
		return form
	}
	if !errors.Is(err, store.ErrNotFound) {
		slog.Error("form lookup failed, attempting baseline", "type", t, "error", err)
	}

	baseline, err := schema.DefaultForm(t)
	if err != nil {
		slog.Warn("no baseline form, skipping dynamic validation", "type", t, "error", err)
		return nil
	}
	if err := s.store.Create(r.Context(), baseline); err != nil {
		slog.Warn("persisting baseline form failed, skipping dynamic validation", "type", t, "error", err)
		return nil
	}
	slog.Info("synthesized baseline form configuration", "type", t, "form", baseline.ID)
	return baseline
}

// acceptUnvalidated persists a submission that bypassed dynamic
// validation entirely.
func (s *Server) acceptUnvalidated(w http.ResponseWriter, r *http.Request, t schema.ApplicationType, data map[string]any) {
	sub := &store.Submission{
		ApplicationType: t,
		Data:            data,
	}
	if err := s.store.SaveSubmission(r.Context(), sub); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":      true,
		"submissionId": sub.ID,
		"responseData": data,
		"validationMetadata": map[string]any{
			"validatedAt": time.Now().UTC().Format(time.RFC3339),
			"skipped":     true,
		},
	})
}

// flattenSections merges nested section containers into a flat
// fieldID-to-value map. Top-level keys win over section contents on
// collision; the section containers themselves are dropped.
func flattenSections(body map[string]any) map[string]any {
	data := make(map[string]any, len(body))

	for _, section := range sectionKeys {
		if nested, ok := body[section].(map[string]any); ok {
			for k, v := range nested {
				data[k] = v
			}
		}
	}
	for k, v := range body {
		if isSectionKey(k) {
			continue
		}
		data[k] = v
	}
	return data
}

func isSectionKey(k string) bool {
	for _, section := range sectionKeys {
		if k == section {
			return true
		}
	}
	return false
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	appType := schema.ApplicationType(r.PathValue("type"))
	if !appType.Valid() {
		writeError(w, http.StatusBadRequest, "unknown application type "+string(appType))
		return
	}

	subs, err := s.store.ListSubmissions(r.Context(), appType, 100)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if subs == nil {
		subs = []*store.Submission{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"submissions": subs,
		"count":       len(subs),
	})
}
