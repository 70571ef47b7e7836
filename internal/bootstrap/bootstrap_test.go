package bootstrap

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/coursedesk/internal/config"
	"github.com/yigit/coursedesk/internal/pkg/auth"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "correct-horse-battery"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

type testApp struct {
	router      *gin.Engine
	token       string
	addBody     string
	inviteBody  string
	inviteCode  int
	groupsBody  string
	groupsCalls atomic.Int32
}

func newTestConfig(providerURL string) *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.SQLitePath = ":memory:"
	cfg.JWT.Secret = "router-test-secret"
	cfg.JWT.AccessTokenExpiration = "15m"
	cfg.JWT.RefreshTokenExpiration = "1h"
	cfg.JWT.Issuer = "coursedesk-test"
	cfg.Provider.BaseURL = providerURL
	cfg.Provider.Session = "default"
	cfg.Provider.APIKey = "test-key"
	cfg.Provider.Timeout = "5s"
	cfg.Provider.GroupsCacheTTL = "1m"
	cfg.Admin.Email = adminEmail
	cfg.Admin.Password = adminPassword
	cfg.Admin.Name = "Administrator"
	cfg.RateLimit.LoginRPS = 0.01
	cfg.RateLimit.LoginBurst = 5
	return cfg
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth.BcryptCost = bcrypt.MinCost

	app := &testApp{inviteCode: http.StatusOK, groupsBody: `[{"id":"120363@g.us","subject":"Go 101"}]`}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/default/groups/{chat}/participants/add", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(app.addBody))
	})
	mux.HandleFunc("GET /api/default/groups/{chat}/invite-code", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(app.inviteCode)
		_, _ = w.Write([]byte(app.inviteBody))
	})
	mux.HandleFunc("GET /api/default/groups", func(w http.ResponseWriter, r *http.Request) {
		app.groupsCalls.Add(1)
		_, _ = w.Write([]byte(app.groupsBody))
	})
	provider := httptest.NewServer(mux)
	t.Cleanup(provider.Close)

	cfg := newTestConfig(provider.URL)
	lgr := zerolog.Nop()

	database, repos, err := SetupDatabase(t.Context(), cfg, lgr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	deps, err := BuildDependencies(t.Context(), cfg, database, repos, lgr)
	require.NoError(t, err)
	t.Cleanup(deps.Close)

	app.router = SetupRouter(cfg, deps, lgr)

	rec := app.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    adminEmail,
		"password": adminPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login struct {
		Data struct {
			Token struct {
				AccessToken string `json:"accessToken"`
			} `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Data.Token.AccessToken)
	app.token = login.Data.Token.AccessToken

	return app
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func createCourse(t *testing.T, app *testApp, body map[string]interface{}) string {
	t.Helper()
	rec := app.do(t, http.MethodPost, "/api/v1/courses", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var course struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &course))
	return course.ID
}

func TestRouter_PublicProbes(t *testing.T) {
	app := newTestApp(t)
	app.token = ""

	rec := app.do(t, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", decode(t, rec).Message)

	rec = app.do(t, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"driver":"sqlite","status":"healthy"}`, string(decode(t, rec).Data))

	rec = app.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "coursedesk_")
}

func TestRouter_RequiresAuthentication(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/api/v1/courses", "/api/v1/students", "/api/v1/groups", "/api/v1/auth/me"} {
		t.Run(path, func(t *testing.T) {
			token := app.token
			app.token = ""
			defer func() { app.token = token }()

			rec := app.do(t, http.MethodGet, path, nil)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			env := decode(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, "AUTH_008", env.Code)
			assert.Equal(t, "authentication required", env.Error)
		})
	}

	app.token = "not-a-jwt"
	rec := app.do(t, http.MethodGet, "/api/v1/courses", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_005", decode(t, rec).Code)
}

func TestRouter_Profile(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/v1/auth/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var user map[string]interface{}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &user))
	assert.Equal(t, adminEmail, user["email"])
	assert.NotContains(t, user, "passwordHash")
}

func TestRouter_LoginFailuresAndRateLimit(t *testing.T) {
	app := newTestApp(t)
	app.token = ""

	rec := app.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "not-an-email", "password": "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VAL_001", decode(t, rec).Code)

	rec = app.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": adminEmail, "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "AUTH_001", env.Code)
	assert.Equal(t, "invalid email or password", env.Error)

	// The setup login and the two attempts above used three of the five tokens.
	for i := 0; i < 2; i++ {
		rec = app.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": adminEmail, "password": "wrong"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec = app.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": adminEmail, "password": adminPassword})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "AUTH_009", decode(t, rec).Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRouter_CourseLifecycle(t *testing.T) {
	app := newTestApp(t)

	id := createCourse(t, app, map[string]interface{}{
		"courseName": "Intro to Go",
		"sessions":   []map[string]string{{"startTime": "8:00", "endTime": "10:00"}},
	})

	rec := app.do(t, http.MethodGet, "/api/v1/courses/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var course map[string]interface{}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &course))
	assert.Equal(t, "SESSIONS", course["kind"])
	assert.Equal(t, "Intro to Go", course["courseName"])

	rec = app.do(t, http.MethodPut, "/api/v1/courses/"+id, map[string]interface{}{"courseName": "Advanced Go"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Course updated successfully", decode(t, rec).Message)

	rec = app.do(t, http.MethodGet, "/api/v1/courses", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var courses []map[string]interface{}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &courses))
	require.Len(t, courses, 1)
	assert.Equal(t, "Advanced Go", courses[0]["courseName"])

	rec = app.do(t, http.MethodDelete, "/api/v1/courses/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Course deleted successfully", decode(t, rec).Message)

	rec = app.do(t, http.MethodGet, "/api/v1/courses/"+id, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "RES_001", decode(t, rec).Code)
}

func TestRouter_CourseValidation(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name    string
		body    interface{}
		message string
	}{
		{"missing name", map[string]interface{}{"chatId": "120363@g.us"}, "courseName is required"},
		{"no sessions", map[string]interface{}{"courseName": "Go"}, "sessions must contain at least one session"},
		{"malformed body", "not an object", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(t, http.MethodPost, "/api/v1/courses", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			env := decode(t, rec)
			assert.Equal(t, "VAL_001", env.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, env.Error)
			}
		})
	}
}

func TestRouter_StudentDuplicateEmail(t *testing.T) {
	app := newTestApp(t)
	courseID := createCourse(t, app, map[string]interface{}{"courseName": "Go study group", "chatId": "120363@g.us"})

	student := map[string]interface{}{
		"name":        "Ada Lovelace",
		"email":       "Ada@Example.com",
		"university":  "Analytical U",
		"phoneNumber": "+15551234567",
		"courseId":    courseID,
	}

	rec := app.do(t, http.MethodPost, "/api/v1/students", student)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &created))
	assert.Equal(t, "ada@example.com", created["email"])
	assert.Equal(t, "Go study group", created["course"].(map[string]interface{})["courseName"])

	student["email"] = "ADA@example.com"
	rec = app.do(t, http.MethodPost, "/api/v1/students", student)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "RES_004", env.Code)
	assert.False(t, env.Success)

	rec = app.do(t, http.MethodGet, "/api/v1/students/unknown-id", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Groups(t *testing.T) {
	app := newTestApp(t)

	for i := 0; i < 2; i++ {
		rec := app.do(t, http.MethodGet, "/api/v1/groups", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, app.groupsBody, string(decode(t, rec).Data))
	}
	assert.Equal(t, int32(1), app.groupsCalls.Load())
}

func TestRouter_AddParticipantOutcomes(t *testing.T) {
	app := newTestApp(t)
	path := "/api/v1/groups/120363@g.us/participants/add"
	body := map[string]interface{}{
		"participants": []map[string]string{{"id": "15551234567@c.us"}},
		"studentName":  "Ada",
		"courseName":   "Intro to Go",
	}

	t.Run("added", func(t *testing.T) {
		app.addBody = `{"15551234567@c.us":{"code":200}}`
		rec := app.do(t, http.MethodPost, path, body)
		require.Equal(t, http.StatusOK, rec.Code)
		env := decode(t, rec)
		assert.True(t, env.Success)

		var data map[string]interface{}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "ADDED", data["status"])
		assert.NotContains(t, data, "manualActionRequired")
	})

	t.Run("invite link fallback", func(t *testing.T) {
		app.addBody = `{"error":"rate limited"}`
		app.inviteBody = `{"inviteCode":"ABC123"}`
		app.inviteCode = http.StatusOK
		rec := app.do(t, http.MethodPost, path, body)
		require.Equal(t, http.StatusOK, rec.Code)
		env := decode(t, rec)
		assert.False(t, env.Success)
		assert.Equal(t, "rate limited", env.Error)
		assert.Empty(t, env.Code)

		var data map[string]interface{}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "INVITE_LINK_READY", data["status"])
		assert.Equal(t, "https://chat.whatsapp.com/ABC123", data["inviteLink"])
		assert.Contains(t, data["inviteMessage"], "https://chat.whatsapp.com/ABC123")
		assert.Equal(t, true, data["manualActionRequired"])
	})

	t.Run("failed", func(t *testing.T) {
		app.addBody = `{"error":"rate limited"}`
		app.inviteBody = `{"message":"not an admin"}`
		app.inviteCode = http.StatusForbidden
		rec := app.do(t, http.MethodPost, path, body)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		env := decode(t, rec)
		assert.False(t, env.Success)
		assert.Equal(t, "SRV_003", env.Code)

		var data map[string]interface{}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "FAILED", data["status"])
		assert.NotEmpty(t, data["inviteError"])
	})

	t.Run("no participants", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, path, map[string]interface{}{"participants": []interface{}{}})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VAL_001", decode(t, rec).Code)
	})
}
