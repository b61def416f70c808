// Package handler exposes the document type catalog over HTTP. These
// endpoints are public: clients need the field lists to render input forms
// before any authentication happens.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"attest/internal/document/registry"
	"attest/pkg/platform/httputil"
)

// Handler serves read-only catalog lookups.
type Handler struct {
	registry *registry.Registry
}

// New constructs a catalog handler.
func New(reg *registry.Registry) *Handler {
	return &Handler{registry: reg}
}

// Register mounts catalog endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/registry/types", h.HandleListTypes)
	r.Get("/registry/types/{type}/fields", h.HandleListFields)
}

// TypeInfo describes one supported document type.
type TypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// FieldInfo is the client-facing projection of a field definition. The
// syntax pattern is surfaced so forms can validate before submitting.
type FieldInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
	Strategy    string `json:"strategy"`
	Pattern     string `json:"pattern,omitempty"`
	MinLen      int    `json:"min_len,omitempty"`
	MaxLen      int    `json:"max_len,omitempty"`
	Required    bool   `json:"required"`
}

// HandleListTypes handles GET /registry/types requests.
func (h *Handler) HandleListTypes(w http.ResponseWriter, r *http.Request) {
	types := h.registry.Types()
	out := make([]TypeInfo, 0, len(types))
	for _, name := range types {
		spec, err := h.registry.Spec(name)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		out = append(out, TypeInfo{Type: spec.Type, Description: spec.Description})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string][]TypeInfo{"types": out})
}

// HandleListFields handles GET /registry/types/{type}/fields requests. It
// returns the ordered user-input fields for the document type.
func (h *Handler) HandleListFields(w http.ResponseWriter, r *http.Request) {
	documentType := chi.URLParam(r, "type")

	fields, err := h.registry.UserInputFields(documentType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]FieldInfo, 0, len(fields))
	for _, f := range fields {
		info := FieldInfo{
			Name:        f.Name,
			DisplayName: f.DisplayName,
			Category:    string(f.Category),
			Strategy:    string(f.Strategy),
			MinLen:      f.MinLen,
			MaxLen:      f.MaxLen,
			Required:    f.Category == registry.CategoryRequired || f.Category == registry.CategorySensitive,
		}
		if f.SyntaxPattern != nil {
			info.Pattern = f.SyntaxPattern.String()
		}
		out = append(out, info)
	}
	httputil.WriteJSON(w, http.StatusOK, map[string][]FieldInfo{"fields": out})
}
