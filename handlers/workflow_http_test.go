package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anjiri1684/pkl_sertifikasi/database"
	"github.com/anjiri1684/pkl_sertifikasi/handlers"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/anjiri1684/pkl_sertifikasi/routes"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t   *testing.T
	app *fiber.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := database.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		sqlDB.Close()
	})

	app := fiber.New()
	routes.Setup(app)
	return &testServer{t: t, app: app}
}

func (s *testServer) user(role string) (models.User, string) {
	s.t.Helper()
	u := models.User{
		FullName: "User " + role,
		Email:    uuid.NewString() + "@example.com",
		Password: "x",
		Role:     role,
		IsActive: true,
	}
	require.NoError(s.t, database.DB.Create(&u).Error)
	token, err := handlers.GenerateToken(u)
	require.NoError(s.t, err)
	return u, token
}

func (s *testServer) do(method, path, token string, body any) (int, map[string]any) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(s.t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestInternshipWorkflowOverHTTP(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.user(models.RoleAdmin)
	_, assessorToken := s.user(models.RoleAssessor)
	_, candidateToken := s.user(models.RoleCandidate)

	code, position := s.do(http.MethodPost, "/api/v1/admin/positions", adminToken, fiber.Map{"name": "Backend Developer", "quota": 3})
	require.Equal(t, fiber.StatusCreated, code, position)
	positionID := position["id"].(string)

	code, reg := s.do(http.MethodPost, "/api/v1/pkl/registrations", candidateToken, fiber.Map{
		"position_id":     positionID,
		"institution":     "SMK Negeri 1",
		"major":           "RPL",
		"education_level": "SMK",
		"motivation":      "Belajar backend",
		"has_laptop":      true,
		"agrees_to_rules": true,
	})
	require.Equal(t, fiber.StatusCreated, code, reg)
	assert.Equal(t, "Pengajuan", reg["status"])
	regID := reg["id"].(string)
	regPath := "/api/v1/pkl/registrations/" + regID

	code, body := s.do(http.MethodPatch, regPath, candidateToken, fiber.Map{"action": "approve"})
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.Equal(t, "authorization", body["kind"])

	code, body = s.do(http.MethodPatch, regPath, adminToken, fiber.Map{"action": "approve", "note": "ok"})
	require.Equal(t, fiber.StatusOK, code, body)
	assert.Equal(t, "Disetujui", body["status"])

	code, body = s.do(http.MethodPatch, regPath, adminToken, fiber.Map{"action": "reject", "reason": "late"})
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, "state", body["kind"])

	code, report := s.do(http.MethodPost, regPath+"/weekly-reports", candidateToken, fiber.Map{
		"title":       "Laporan minggu 1",
		"url":         "https://drive.example.com/minggu-1",
		"week_number": 1,
	})
	require.Equal(t, fiber.StatusCreated, code, report)
	assert.Equal(t, "pending", report["status"])

	code, body = s.do(http.MethodPatch, "/api/v1/submissions/weekly-reports/"+report["id"].(string), candidateToken, fiber.Map{"action": "approve"})
	assert.Equal(t, fiber.StatusForbidden, code)

	code, body = s.do(http.MethodPatch, "/api/v1/submissions/weekly-reports/"+report["id"].(string), assessorToken, fiber.Map{"action": "approve"})
	require.Equal(t, fiber.StatusOK, code, body)
	assert.Equal(t, "approved", body["status"])

	code, body = s.do(http.MethodPost, regPath+"/certificate", adminToken, fiber.Map{"link": "https://cert/abc"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, code, body)

	code, body = s.do(http.MethodPost, regPath+"/assessment", assessorToken, fiber.Map{"outcome": "Diterima"})
	require.Equal(t, fiber.StatusOK, code, body)
	assert.Equal(t, "Diterima", body["status"])

	code, body = s.do(http.MethodPost, regPath+"/certificate", assessorToken, fiber.Map{"link": "https://cert/abc"})
	assert.Equal(t, fiber.StatusForbidden, code)

	code, body = s.do(http.MethodPost, regPath+"/certificate", adminToken, fiber.Map{"link": "https://cert/abc"})
	require.Equal(t, fiber.StatusCreated, code, body)
	assert.Equal(t, "https://cert/abc", body["certificate_link"])

	code, body = s.do(http.MethodPost, regPath+"/certificate", adminToken, fiber.Map{"link": "https://cert/abc"})
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, "conflict", body["kind"])

	code, body = s.do(http.MethodPost, "/api/v1/pkl/positions/"+positionID+"/review", candidateToken, fiber.Map{"rating": 5, "text": "Mantap"})
	require.Equal(t, fiber.StatusCreated, code, body)

	code, body = s.do(http.MethodGet, "/api/v1/pkl/positions/"+positionID+"/reviews", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	summary := body["summary"].(map[string]any)
	assert.EqualValues(t, 1, summary["count"])
	assert.EqualValues(t, 5, summary["average_rating"])
}

func TestAuthAndRoleGuards(t *testing.T) {
	s := newTestServer(t)
	_, candidateToken := s.user(models.RoleCandidate)

	code, body := s.do(http.MethodGet, "/api/v1/pkl/registrations/me", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "authentication", body["kind"])

	code, _ = s.do(http.MethodGet, "/api/v1/pkl/registrations/me", "not-a-jwt", nil)
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, body = s.do(http.MethodGet, "/api/v1/admin/dashboard-analytics", candidateToken, nil)
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.Equal(t, "authorization", body["kind"])

	code, body = s.do(http.MethodPatch, "/api/v1/pkl/registrations/not-a-uuid", candidateToken, fiber.Map{"action": "cancel"})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "validation", body["kind"])

	code, body = s.do(http.MethodPatch, "/api/v1/pkl/registrations/"+uuid.NewString(), candidateToken, fiber.Map{"action": "cancel"})
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, "not_found", body["kind"])
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"full_name": "Siti Aminah",
		"email":     "Siti@Example.com",
		"password":  "rahasia123",
	})
	require.Equal(t, fiber.StatusCreated, code, body)
	assert.Equal(t, "candidate", body["role"])
	assert.Equal(t, "siti@example.com", body["email"])

	code, _ = s.do(http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"full_name": "Siti Aminah",
		"email":     "siti@example.com",
		"password":  "rahasia123",
	})
	assert.Equal(t, fiber.StatusConflict, code)

	code, _ = s.do(http.MethodPost, "/api/v1/auth/login", "", fiber.Map{"email": "siti@example.com", "password": "salah"})
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, body = s.do(http.MethodPost, "/api/v1/auth/login", "", fiber.Map{"email": "siti@example.com", "password": "rahasia123"})
	require.Equal(t, fiber.StatusOK, code, body)
	token := body["token"].(string)

	code, body = s.do(http.MethodGet, "/api/v1/profile/me", token, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "Siti Aminah", body["full_name"])
}

func TestCertificationBatchCatalog(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.user(models.RoleAdmin)

	code, program := s.do(http.MethodPost, "/api/v1/admin/programs", adminToken, fiber.Map{"name": "Junior Web Developer"})
	require.Equal(t, fiber.StatusCreated, code, program)
	programID := program["id"].(string)

	code, _ = s.do(http.MethodPost, "/api/v1/admin/programs", adminToken, fiber.Map{"name": "Junior Web Developer"})
	assert.Equal(t, fiber.StatusConflict, code)

	code, body := s.do(http.MethodPost, "/api/v1/admin/programs/"+programID+"/batches", adminToken, fiber.Map{
		"name":       "Batch Juni",
		"start_date": "2025-06-02",
		"end_date":   "2025-05-01",
		"quota":      20,
	})
	assert.Equal(t, fiber.StatusBadRequest, code, body)

	code, body = s.do(http.MethodPost, "/api/v1/admin/programs/"+programID+"/batches", adminToken, fiber.Map{
		"name":       "Batch Juni",
		"start_date": "2025-06-02",
		"quota":      20,
	})
	require.Equal(t, fiber.StatusCreated, code, body)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sertifikasi/programs", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	var programs []models.CertificationProgram
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&programs))
	require.Len(t, programs, 1)
	require.Len(t, programs[0].Batches, 1)
	assert.Equal(t, "Batch Juni", programs[0].Batches[0].Name)
}
