package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attest/internal/document/registry"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	reg, err := registry.New()
	require.NoError(t, err)
	r := chi.NewRouter()
	New(reg).Register(r)
	return r
}

func TestHandleListTypes(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/registry/types", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Types []TypeInfo `json:"types"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Types, 5)
	assert.Equal(t, registry.TypeNationalCard, resp.Types[0].Type)
	assert.NotEmpty(t, resp.Types[0].Description)
}

func TestHandleListFields(t *testing.T) {
	router := newRouter(t)

	t.Run("returns ordered user input fields", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/registry/types/NationalCard/fields", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Fields []FieldInfo `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Fields, 4)
		assert.Equal(t, "full_name", resp.Fields[0].Name)
		assert.Equal(t, "fuzzy_text", resp.Fields[0].Strategy)
		assert.True(t, resp.Fields[0].Required)
	})

	t.Run("surfaces syntax patterns", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/registry/types/Passport/fields", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Fields []FieldInfo `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		for _, f := range resp.Fields {
			if f.Name == "passport_number" {
				assert.Equal(t, "^[A-Z][0-9]{7}$", f.Pattern)
				return
			}
		}
		t.Fatal("passport_number field not returned")
	})

	t.Run("unknown type is 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/registry/types/LibraryCard/fields", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
