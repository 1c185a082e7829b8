package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/postmod/internal/config"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/models"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/services"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/testutil"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/toxicity"
	"github.com/gofiber/fiber/v2"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const classifierURL = "http://classifier.test"

func scores(toxicity, insult float64) map[string]any {
	return map[string]any{
		"toxicity":        toxicity,
		"severe_toxicity": 0.0,
		"obscene":         0.0,
		"identity_attack": 0.0,
		"insult":          insult,
		"threat":          0.0,
		"sexual_explicit": 0.0,
	}
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app, _ := newTestAppWithDB(t)
	return app
}

// newTestAppWithDB wires the full route table against an in-memory database
// and a mocked classifier. Text containing "awful" is toxic and "outage" makes
// the classifier fail.
func newTestAppWithDB(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	httpmock.RegisterResponder(http.MethodPost, classifierURL+"/moderate",
		func(req *http.Request) (*http.Response, error) {
			body, _ := io.ReadAll(req.Body)
			switch {
			case bytes.Contains(body, []byte("outage")):
				return httpmock.NewStringResponse(http.StatusInternalServerError, "boom"), nil
			case bytes.Contains(body, []byte("awful")):
				return httpmock.NewJsonResponse(http.StatusOK, map[string]any{"results": scores(0.92, 0.81)})
			default:
				return httpmock.NewJsonResponse(http.StatusOK, map[string]any{"results": scores(0.01, 0.02)})
			}
		})

	cfg := &config.Config{
		JWTSecret:       "routes-secret",
		JWTAccessExpiry: time.Hour,
		AdminEmails:     "admin@example.com",
	}
	db := testutil.NewDB(t)

	classifier := toxicity.NewClient(toxicity.Config{URL: classifierURL, Threshold: 0.5, Timeout: time.Second})
	userService := services.NewUserService(db)
	authService := services.NewAuthService(userService, cfg)
	postService := services.NewPostService(db, services.NewModerationService(classifier))
	reportService := services.NewReportService(db)

	app := fiber.New()
	Setup(app, cfg, db,
		handlers.NewHealthHandler(func() error { return nil }),
		handlers.NewAuthHandler(authService),
		handlers.NewUserHandler(userService),
		handlers.NewPostHandler(postService),
		handlers.NewReportHandler(reportService),
	)
	return app, db
}

type response struct {
	status int
	body   map[string]any
}

func call(t *testing.T, app *fiber.App, method, path, token string, payload any) response {
	t.Helper()

	var reader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := response{status: resp.StatusCode}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out.body), string(raw))
	}
	return out
}

func register(t *testing.T, app *fiber.App, username string) (token, id string) {
	t.Helper()
	resp := call(t, app, "POST", "/api/auth/register", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "correct horse",
	})
	require.Equal(t, fiber.StatusCreated, resp.status, resp.body)
	payload := resp.body["data"].(map[string]any)
	return payload["access_token"].(string), payload["user"].(map[string]any)["id"].(string)
}

func dataOf(t *testing.T, r response) map[string]any {
	t.Helper()
	d, ok := r.body["data"].(map[string]any)
	require.True(t, ok, "missing data in %v", r.body)
	return d
}

func TestCreatePost_ModerationOutcomes(t *testing.T) {
	app := newTestApp(t)
	token, _ := register(t, app, "alice")

	created := call(t, app, "POST", "/api/posts", token, map[string]any{"title": "hi", "description": "a lovely day"})
	require.Equal(t, fiber.StatusCreated, created.status, created.body)
	assert.Equal(t, "a lovely day", dataOf(t, created)["description"])

	toxic := call(t, app, "POST", "/api/posts", token, map[string]any{"description": "you are awful"})
	assert.Equal(t, fiber.StatusNotAcceptable, toxic.status)
	assert.Equal(t, true, toxic.body["error"])
	assert.Equal(t, []any{"toxicity", "insult"}, toxic.body["tags"])

	down := call(t, app, "POST", "/api/posts", token, map[string]any{"description": "outage ahead"})
	assert.Equal(t, fiber.StatusServiceUnavailable, down.status)

	list := call(t, app, "GET", "/api/posts", token, nil)
	require.Equal(t, fiber.StatusOK, list.status)
	assert.Len(t, list.body["data"], 1)
	assert.EqualValues(t, 1, list.body["pagination"].(map[string]any)["count"])
}

func TestReportLifecycle(t *testing.T) {
	app := newTestApp(t)
	aliceToken, _ := register(t, app, "alice")
	bobToken, _ := register(t, app, "bob")
	register(t, app, "admin")

	post := dataOf(t, call(t, app, "POST", "/api/posts", aliceToken, map[string]any{"description": "borderline"}))
	postID := post["id"].(string)

	report := call(t, app, "POST", "/api/toxicity-reports", bobToken, map[string]any{
		"type":              "POST",
		"reportedElementId": postID,
		"tags":              []string{"insult"},
	})
	require.Equal(t, fiber.StatusCreated, report.status, report.body)
	reportID := dataOf(t, report)["id"].(string)
	assert.Equal(t, "PENDING", dataOf(t, report)["status"])

	dup := call(t, app, "POST", "/api/toxicity-reports", aliceToken, map[string]any{"type": "POST", "reportedElementId": postID})
	assert.Equal(t, fiber.StatusConflict, dup.status)

	missing := call(t, app, "POST", "/api/toxicity-reports", bobToken, map[string]any{
		"type": "COMMENT", "reportedElementId": "8a1f2c3d-0000-4000-8000-000000000000",
	})
	assert.Equal(t, fiber.StatusNotFound, missing.status)

	assert.Equal(t, fiber.StatusForbidden, call(t, app, "GET", "/api/toxicity-reports/monitor", bobToken, nil).status)
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, "GET", "/api/toxicity-reports/monitor", "", nil).status)

	login := call(t, app, "POST", "/api/auth/login/admin", "", map[string]any{"username": "admin", "password": "correct horse"})
	require.Equal(t, fiber.StatusOK, login.status, login.body)
	adminToken := dataOf(t, login)["access_token"].(string)

	monitor := call(t, app, "GET", "/api/toxicity-reports/monitor?type=post&limit=5", adminToken, nil)
	require.Equal(t, fiber.StatusOK, monitor.status)
	assert.Len(t, monitor.body["data"], 1)
	assert.EqualValues(t, 5, monitor.body["pagination"].(map[string]any)["limit"])

	invalid := call(t, app, "PATCH", "/api/toxicity-reports/"+reportID+"/decide", adminToken, map[string]any{"status": "MAYBE"})
	assert.Equal(t, fiber.StatusBadRequest, invalid.status)

	decided := call(t, app, "PATCH", "/api/toxicity-reports/"+reportID+"/decide", adminToken, map[string]any{"status": "ACCEPTED"})
	require.Equal(t, fiber.StatusOK, decided.status, decided.body)
	assert.Equal(t, "ACCEPTED", dataOf(t, decided)["status"])
	assert.Equal(t, "admin", dataOf(t, decided)["reviewer"].(map[string]any)["username"])

	again := call(t, app, "PATCH", "/api/toxicity-reports/"+reportID+"/decide", adminToken, map[string]any{"status": "REJECTED"})
	assert.Equal(t, fiber.StatusConflict, again.status)

	assert.Equal(t, fiber.StatusNotFound, call(t, app, "GET", "/api/posts/"+postID, aliceToken, nil).status)

	history := call(t, app, "GET", "/api/toxicity-reports/history", adminToken, nil)
	require.Equal(t, fiber.StatusOK, history.status)
	assert.Len(t, history.body["data"], 1)

	pending := call(t, app, "GET", "/api/toxicity-reports/monitor", adminToken, nil)
	assert.Empty(t, pending.body["data"])
}

func TestPromotedAdmin_SeesInactivePosts(t *testing.T) {
	app, db := newTestAppWithDB(t)
	aliceToken, _ := register(t, app, "alice")
	carolToken, carolID := register(t, app, "carol")

	post := dataOf(t, call(t, app, "POST", "/api/posts", aliceToken, map[string]any{"description": "quiet for now"}))
	postID := post["id"].(string)
	require.Equal(t, fiber.StatusOK, call(t, app, "PATCH", "/api/posts/"+postID+"/active", aliceToken, nil).status)

	assert.Equal(t, fiber.StatusNotFound, call(t, app, "GET", "/api/posts/"+postID, carolToken, nil).status)

	// carol keeps her user-role token after the promotion.
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", carolID).Update("role", models.RoleAdmin).Error)

	got := call(t, app, "GET", "/api/posts/"+postID, carolToken, nil)
	require.Equal(t, fiber.StatusOK, got.status, got.body)
	assert.Equal(t, false, dataOf(t, got)["active"])

	all := call(t, app, "GET", "/api/posts/all", carolToken, nil)
	require.Equal(t, fiber.StatusOK, all.status)
	assert.Len(t, all.body["data"], 1)
}

func TestAuthAndUsers(t *testing.T) {
	app := newTestApp(t)
	token, id := register(t, app, "alice")

	dupe := call(t, app, "POST", "/api/auth/register", "", map[string]any{
		"username": "alice2", "email": "alice@example.com", "password": "correct horse",
	})
	assert.Equal(t, fiber.StatusConflict, dupe.status)

	badLogin := call(t, app, "POST", "/api/auth/login", "", map[string]any{"email": "alice@example.com", "password": "nope nope"})
	assert.Equal(t, fiber.StatusUnauthorized, badLogin.status)

	me := call(t, app, "GET", "/api/auth/whoami", token, nil)
	require.Equal(t, fiber.StatusOK, me.status)
	assert.Equal(t, id, dataOf(t, me)["id"])

	assert.Equal(t, fiber.StatusForbidden, call(t, app, "GET", "/api/users", token, nil).status)

	updated := call(t, app, "PUT", "/api/users/"+id, token, map[string]any{"name": "Alice"})
	require.Equal(t, fiber.StatusOK, updated.status)
	assert.Equal(t, "Alice", dataOf(t, updated)["name"])

	assert.Equal(t, fiber.StatusBadRequest, call(t, app, "GET", "/api/posts/not-a-uuid", token, nil).status)
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	health := call(t, app, "GET", "/api/health", "", nil)
	require.Equal(t, fiber.StatusOK, health.status)
	assert.Equal(t, "ok", health.body["db"])

	req := httptest.NewRequest("GET", "/api/metrics", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "go_goroutines")
}
