package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Sylgau-exe/gapanalysis/internal/auth"
	"github.com/Sylgau-exe/gapanalysis/internal/cache"
	"github.com/Sylgau-exe/gapanalysis/internal/config"
	"github.com/Sylgau-exe/gapanalysis/internal/database"
	"github.com/Sylgau-exe/gapanalysis/internal/dto"
	"github.com/Sylgau-exe/gapanalysis/internal/models"
	"github.com/Sylgau-exe/gapanalysis/internal/testutil"
	"github.com/alicebob/miniredis/v2"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type harness struct {
	t   *testing.T
	app *fiber.App
	db  *gorm.DB
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:   testSecret,
		JWTExpiry:   time.Hour,
		BcryptCost:  bcrypt.MinCost,
		CORSOrigins: "*",
	}
}

func newHarness(t *testing.T, cfg *config.Config, opts Options) *harness {
	t.Helper()
	db := testutil.NewDB(t)
	return &harness{t: t, app: New(cfg, db, opts), db: db}
}

func (h *harness) do(method, path, token string, body any) (int, []byte) {
	h.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = strings.NewReader(string(raw))
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return resp.StatusCode, out
}

func (h *harness) register(email string) dto.AuthResponse {
	h.t.Helper()
	status, body := h.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "password123",
		"name":     "Test User",
	})
	require.Equal(h.t, http.StatusCreated, status, string(body))

	var resp dto.AuthResponse
	require.NoError(h.t, json.Unmarshal(body, &resp))
	return resp
}

func errorOf(t *testing.T, body []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e), string(body))
	return e.Error
}

func scores(v int) map[string]int {
	out := map[string]int{}
	for _, k := range []string{
		"basics", "agile", "product", "initiation", "scope", "time", "cost",
		"quality", "resources", "communication", "risk", "procurement", "softskills",
	} {
		out[k] = v
	}
	return out
}

func TestRegisterSaveHistoryFlow(t *testing.T) {
	h := newHarness(t, testConfig(), Options{})

	user := h.register("a@b.com")
	assert.NotEmpty(t, user.Token)
	assert.Equal(t, "a@b.com", user.User.Email)

	status, body := h.do(http.MethodPost, "/api/assessment/save", user.Token, map[string]any{
		"profile":    map[string]any{"name": "A", "title": "PM", "certifications": []string{}},
		"objectives": map[string]string{"goal": "job", "timeline": "3m", "learningStyle": "video"},
		"scores":     scores(3),
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	var saved dto.SaveAssessmentResponse
	require.NoError(t, json.Unmarshal(body, &saved))
	assert.True(t, saved.Success)
	assert.Equal(t, 60, saved.OverallScore)
	assert.Equal(t, 4, saved.Target)
	assert.Equal(t, 13, saved.GapCount)
	assert.Equal(t, 0, saved.StrengthCount)

	status, body = h.do(http.MethodGet, "/api/assessment/history", user.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var history dto.HistoryResponse
	require.NoError(t, json.Unmarshal(body, &history))
	require.Len(t, history.Assessments, 1)
	assert.Equal(t, saved.AssessmentID, history.Assessments[0].ID)
	assert.Equal(t, 3, history.Assessments[0].Scores.SoftSkills)

	status, body = h.do(http.MethodGet, "/api/auth/me", user.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var me dto.MeResponse
	require.NoError(t, json.Unmarshal(body, &me))
	assert.Equal(t, int64(1), me.User.AssessmentCount)
	require.NotNil(t, me.User.JobTitle)
	assert.Equal(t, "PM", *me.User.JobTitle)
}

func TestRegisterErrors(t *testing.T) {
	h := newHarness(t, testConfig(), Options{})
	h.register("dup@example.com")

	tests := []struct {
		name   string
		body   map[string]string
		status int
		msg    string
	}{
		{"duplicate", map[string]string{"email": "DUP@example.com", "password": "password123"}, 409, "Email already registered"},
		{"missing", map[string]string{"email": "x@example.com"}, 400, "Email and password required"},
		{"short", map[string]string{"email": "x@example.com", "password": "short"}, 400, "Password must be at least 8 characters"},
		{"format", map[string]string{"email": "nope", "password": "password123"}, 400, "Invalid email format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := h.do(http.MethodPost, "/api/auth/register", "", tt.body)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.msg, errorOf(t, body))
		})
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	h := newHarness(t, testConfig(), Options{})
	h.register("known@example.com")

	s1, unknown := h.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "unknown@example.com", "password": "password123"})
	s2, wrong := h.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "known@example.com", "password": "wrong-password"})

	assert.Equal(t, http.StatusUnauthorized, s1)
	assert.Equal(t, http.StatusUnauthorized, s2)
	assert.Equal(t, unknown, wrong)
	assert.Equal(t, "Invalid email or password", errorOf(t, wrong))

	status, body := h.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "KNOWN@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, status)
	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.NotEmpty(t, resp.Token)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newHarness(t, testConfig(), Options{})
	user := h.register("tok@example.com")

	expired, err := auth.NewIssuer(testSecret, -time.Hour).CreateToken(user.User.ID, "tok@example.com", "Test User")
	require.NoError(t, err)
	foreign, err := auth.NewIssuer("other-secret", time.Hour).CreateToken(user.User.ID, "tok@example.com", "Test User")
	require.NoError(t, err)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPost, "/api/assessment/save"},
		{http.MethodGet, "/api/assessment/history"},
		{http.MethodPost, "/api/assessment/track-lead"},
		{http.MethodGet, "/api/admin/stats"},
	}
	for _, r := range routes {
		status, body := h.do(r.method, r.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, r.path)
		assert.Equal(t, "Authentication required", errorOf(t, body))

		for _, tok := range []string{expired, foreign, "garbage"} {
			status, body = h.do(r.method, r.path, tok, nil)
			assert.Equal(t, http.StatusUnauthorized, status, r.path)
			assert.Equal(t, "Invalid or expired token", errorOf(t, body))
		}
	}
}

func TestAdminStats(t *testing.T) {
	h := newHarness(t, testConfig(), Options{})
	user := h.register("plain@example.com")
	admin := h.register("admin@example.com")
	require.NoError(t, h.db.Model(&models.User{}).Where("id = ?", admin.User.ID).Update("is_admin", true).Error)

	status, body := h.do(http.MethodGet, "/api/admin/stats", user.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Admin access required", errorOf(t, body))

	status, body = h.do(http.MethodPost, "/api/assessment/track-lead", user.Token, map[string]string{
		"partnerCode": "pmi", "resourceClicked": "pmp-prep",
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = h.do(http.MethodGet, "/api/admin/stats", admin.Token, nil)
	require.Equal(t, http.StatusOK, status, string(body))

	var stats dto.AdminStatsResponse
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, int64(2), stats.Overview.TotalUsers)
	assert.Equal(t, int64(1), stats.Overview.TotalLeads)
	assert.Equal(t, []dto.PartnerCount{{PartnerCode: "pmi", Clicks: 1, UniqueUsers: 1}}, stats.PartnerBreakdown)
	assert.Len(t, stats.RecentUsers, 2)
}

func TestAdminOfDeletedUserIsForbidden(t *testing.T) {
	h := newHarness(t, testConfig(), Options{})
	token, err := auth.NewIssuer(testSecret, time.Hour).CreateToken(uuid.New(), "ghost@example.com", "Ghost")
	require.NoError(t, err)

	status, _ := h.do(http.MethodGet, "/api/admin/stats", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestValidationErrors(t *testing.T) {
	h := newHarness(t, testConfig(), Options{})
	user := h.register("val@example.com")

	status, body := h.do(http.MethodPost, "/api/assessment/track-lead", user.Token, map[string]string{"partnerCode": "pmi"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing required tracking data", errorOf(t, body))

	status, body = h.do(http.MethodPost, "/api/assessment/save", user.Token, map[string]any{"scores": scores(3)})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing required assessment data", errorOf(t, body))

	status, body = h.do(http.MethodPost, "/api/assessment/save", user.Token, map[string]any{
		"profile":    map[string]string{},
		"objectives": map[string]string{},
		"scores":     scores(9),
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Scores must be between 0 and 5", errorOf(t, body))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid request body", errorOf(t, raw))
}

func TestPreflightAndMethodMismatch(t *testing.T) {
	h := newHarness(t, testConfig(), Options{})

	req := httptest.NewRequest(http.MethodOptions, "/api/assessment/save", nil)
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Authorization")

	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/api/auth/login"},
		{http.MethodGet, "/api/auth/register"},
		{http.MethodPost, "/api/auth/me"},
		{http.MethodGet, "/api/assessment/save"},
		{http.MethodPost, "/api/assessment/history"},
		{http.MethodDelete, "/api/admin/stats"},
	} {
		status, body := h.do(r.method, r.path, "", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, status, r.method+" "+r.path)
		assert.Equal(t, "Method not allowed", errorOf(t, body))
	}

	status, body := h.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not found", errorOf(t, body))
}

func TestHealth(t *testing.T) {
	h := newHarness(t, testConfig(), Options{})

	status, body := h.do(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	var health dto.HealthResponse
	require.NoError(t, json.Unmarshal(body, &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "ok", health.DB)
}

func TestHealthHidesDatabaseError(t *testing.T) {
	h := newHarness(t, testConfig(), Options{})
	require.NoError(t, database.Close(h.db))

	status, body := h.do(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	var health dto.HealthResponse
	require.NoError(t, json.Unmarshal(body, &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "unhealthy", health.DB)
	assert.NotContains(t, string(body), "closed")
}

func TestAuthRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.AuthRateLimit = 2
	h := newHarness(t, cfg, Options{})

	creds := map[string]string{"email": "rl@example.com", "password": "password123"}
	for i := 0; i < 2; i++ {
		status, _ := h.do(http.MethodPost, "/api/auth/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, status)
	}
	status, body := h.do(http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "Too many requests", errorOf(t, body))

	status, _ = h.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestRateLimitWithRedisStorage(t *testing.T) {
	mr := miniredis.RunT(t)
	storage, err := cache.NewRedisStorage(context.Background(), "redis://"+mr.Addr(), "test:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	cfg := testConfig()
	cfg.APIRateLimit = 1
	h := newHarness(t, cfg, Options{LimiterStorage: storage})

	status, _ := h.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = h.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, status)

	assert.NotEmpty(t, mr.Keys())
}

func TestSharedStorageKeepsLimitersApart(t *testing.T) {
	mr := miniredis.RunT(t)
	storage, err := cache.NewRedisStorage(context.Background(), "redis://"+mr.Addr(), "test:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	cfg := testConfig()
	cfg.APIRateLimit = 120
	cfg.AuthRateLimit = 3
	h := newHarness(t, cfg, Options{LimiterStorage: storage})

	for i := 0; i < 10; i++ {
		status, _ := h.do(http.MethodGet, "/api/health", "", nil)
		require.Equal(t, http.StatusOK, status)
	}

	creds := map[string]string{"email": "shared@example.com", "password": "password123"}
	for i := 0; i < 3; i++ {
		status, _ := h.do(http.MethodPost, "/api/auth/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, status)
	}
	status, _ := h.do(http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, status)

	status, _ = h.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, status)

	keys := mr.Keys()
	assert.Contains(t, keys, "test:api:0.0.0.0")
	assert.Contains(t, keys, "test:auth:0.0.0.0")
}

type captureMailer struct {
	sent chan string
}

func (m *captureMailer) SendWelcome(_ context.Context, _, email string) error {
	m.sent <- email
	return nil
}

func TestRegisterSendsWelcomeEmail(t *testing.T) {
	mailer := &captureMailer{sent: make(chan string, 1)}
	h := newHarness(t, testConfig(), Options{Mailer: mailer})
	h.register("welcome@example.com")

	select {
	case got := <-mailer.sent:
		assert.Equal(t, "welcome@example.com", got)
	case <-time.After(2 * time.Second):
		t.Fatal("welcome email was not sent")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t, testConfig(), Options{})
	h.register("metrics@example.com")

	status, body := h.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "gapanalysis_registrations_total 1")
	assert.Contains(t, string(body), `route="/api/auth/register"`)
}
