package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecofest/accreditation-api/internal/domain/registration"
	"github.com/ecofest/accreditation-api/internal/storage/postgres"
)

// listOnlyRepo serves the read endpoints; mutations are not expected.
type listOnlyRepo struct {
	regs []*registration.Registration
}

func (r *listOnlyRepo) Create(*registration.Registration) error { panic("unexpected") }

func (r *listOnlyRepo) GetByID(id uuid.UUID) (*registration.Registration, error) {
	for _, reg := range r.regs {
		if reg.ID == id {
			return reg, nil
		}
	}
	return nil, &postgres.NotFoundError{Entity: "registration"}
}

func (r *listOnlyRepo) GetAll() ([]*registration.Registration, error) {
	return r.regs, nil
}

func (r *listOnlyRepo) GetByStatus(status registration.Status) ([]*registration.Registration, error) {
	var out []*registration.Registration
	for _, reg := range r.regs {
		if reg.Status == status {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (r *listOnlyRepo) GetByParticipant(uuid.UUID) ([]*registration.Registration, error) {
	return nil, nil
}

func (r *listOnlyRepo) Update(*registration.Registration) error { panic("unexpected") }

func (r *listOnlyRepo) UpdateStatus(uuid.UUID, registration.Status, string) error {
	panic("unexpected")
}

func (r *listOnlyRepo) UpdateArtifacts(uuid.UUID, string, string) error { panic("unexpected") }

func newTestRouter(repo postgres.RegistrationRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	// nil collaborators: these routes must reject bad input before
	// touching the controller or storage
	h := NewRegistrationHandler(nil, repo, nil, nil, 1<<20)

	router := gin.New()
	router.POST("/api/registrations", h.Submit)
	router.GET("/api/registrations", h.List)
	router.GET("/api/registrations/:id", h.Get)
	router.POST("/api/registrations/:id/status", h.UpdateStatus)
	return router
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitRejectsUnknownProfile(t *testing.T) {
	router := newTestRouter(&listOnlyRepo{})

	w := doJSON(router, http.MethodPost, "/api/registrations", gin.H{
		"first_name": "Awa",
		"email":      "awa@example.com",
		"profile":    "journalist",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unknown profile")
}

func TestSubmitRejectsMissingEmail(t *testing.T) {
	router := newTestRouter(&listOnlyRepo{})

	w := doJSON(router, http.MethodPost, "/api/registrations", gin.H{
		"first_name": "Awa",
		"profile":    "press",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitRejectsBadBirthDate(t *testing.T) {
	router := newTestRouter(&listOnlyRepo{})

	w := doJSON(router, http.MethodPost, "/api/registrations", gin.H{
		"first_name": "Awa",
		"email":      "awa@example.com",
		"profile":    "press",
		"birth_date": "31-12-1990",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "birth_date")
}

func TestUpdateStatusRejectsUnknownStatusBeforeMutation(t *testing.T) {
	// the panicking repo proves nothing was touched
	router := newTestRouter(&listOnlyRepo{})

	w := doJSON(router, http.MethodPost, "/api/registrations/"+uuid.New().String()+"/status", gin.H{
		"status": "validated",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unknown status")
}

func TestUpdateStatusRejectsPending(t *testing.T) {
	router := newTestRouter(&listOnlyRepo{})

	w := doJSON(router, http.MethodPost, "/api/registrations/"+uuid.New().String()+"/status", gin.H{
		"status": "pending",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "approved or rejected")
}

func TestUpdateStatusRejectsBadID(t *testing.T) {
	router := newTestRouter(&listOnlyRepo{})

	w := doJSON(router, http.MethodPost, "/api/registrations/not-a-uuid/status", gin.H{
		"status": "approved",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListFiltersByStatus(t *testing.T) {
	approved := registration.New(uuid.New(), "Awa", "Diallo", "awa@example.com", registration.ProfilePress)
	approved.Status = registration.StatusApproved
	pending := registration.New(uuid.New(), "Jean", "Koffi", "jean@example.com", registration.ProfileStaff)

	router := newTestRouter(&listOnlyRepo{regs: []*registration.Registration{approved, pending}})

	w := doJSON(router, http.MethodGet, "/api/registrations?status=approved", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Count)

	w = doJSON(router, http.MethodGet, "/api/registrations?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRegistrationNotFound(t *testing.T) {
	router := newTestRouter(&listOnlyRepo{})

	w := doJSON(router, http.MethodGet, "/api/registrations/"+uuid.New().String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
