package bootstrap

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/config"
	"github.com/yigit/alumnihub/internal/testutil"
)

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newAPI(t *testing.T) (*apiClient, *Dependencies) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Mode = config.ModeTest
	cfg.Server.StoragePath = t.TempDir()
	cfg.Auth.SecretKey = "bootstrap-test-secret"
	cfg.Auth.AccessTokenExpiration = "1h"
	cfg.Auth.RefreshTokenExpiration = "24h"
	cfg.Auth.Issuer = "alumnihub-test"
	cfg.Auth.CookieName = "alumni_session"

	database := testutil.NewDB(t)
	deps, err := BuildDependencies(cfg, database, zerolog.Nop())
	require.NoError(t, err)
	return &apiClient{t: t, router: SetupRouter(cfg, deps, zerolog.Nop())}, deps
}

func (a *apiClient) call(method, path, token string, body interface{}) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func (a *apiClient) login(email, password string) string {
	a.t.Helper()
	status, env := a.call(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, status, env.Error)
	var data struct {
		Token struct {
			AccessToken string `json:"accessToken"`
		} `json:"token"`
		Landing string `json:"landing"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &data))
	return data.Token.AccessToken
}

func TestHealthAndPing(t *testing.T) {
	api, _ := newAPI(t)

	status, _ := api.call(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, status)

	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestUnknownAPIPathReturnsJSON(t *testing.T) {
	api, _ := newAPI(t)

	status, env := api.call(http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "RES_001", env.Error.Code)
}

func TestRegistrationApprovalFlow(t *testing.T) {
	api, deps := newAPI(t)
	testutil.CreateUser(t, deps.DB, testutil.Admin(), testutil.WithEmail("admin@example.com"), testutil.WithPassword("adminPass1"))

	status, env := api.call(http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":          "new@example.com",
		"password":       "s3cretPass",
		"firstName":      "New",
		"lastName":       "Grad",
		"graduationYear": 2020,
		"department":     "Physics",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	var registered struct {
		UserID int64 `json:"userId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &registered))

	status, env = api.call(http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email": "new@example.com", "password": "s3cretPass", "firstName": "A", "lastName": "B", "graduationYear": 2020,
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "RES_002", env.Error.Code)

	pending := api.login("new@example.com", "s3cretPass")
	status, env = api.call(http.MethodGet, "/api/v1/profile", pending, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "AUTH_004", env.Error.Code)

	status, _ = api.call(http.MethodGet, "/api/v1/auth/me", pending, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = api.call(http.MethodGet, "/api/v1/admin/users/pending", pending, nil)
	assert.Equal(t, http.StatusForbidden, status)

	admin := api.login("admin@example.com", "adminPass1")
	status, env = api.call(http.MethodPost, "/api/v1/admin/users/"+strconv.FormatInt(registered.UserID, 10)+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, status, env.Error)

	// the same token now passes because approval is re-read per request
	status, _ = api.call(http.MethodGet, "/api/v1/profile", pending, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestJobBoardFlow(t *testing.T) {
	api, deps := newAPI(t)
	testutil.CreateUser(t, deps.DB, testutil.Approved(), testutil.WithEmail("poster@example.com"), testutil.WithPassword("posterPass1"))
	testutil.CreateUser(t, deps.DB, testutil.Approved(), testutil.WithEmail("seeker@example.com"), testutil.WithPassword("seekerPass1"))
	poster := api.login("poster@example.com", "posterPass1")
	seeker := api.login("seeker@example.com", "seekerPass1")

	status, env := api.call(http.MethodPost, "/api/v1/jobs", poster, map[string]string{
		"title":       "Backend Engineer",
		"company":     "Acme",
		"description": "Build APIs",
		"jobType":     "full-time",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	var job struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &job))
	jobPath := "/api/v1/jobs/" + strconv.FormatInt(job.ID, 10)

	status, _ = api.call(http.MethodGet, jobPath, "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = api.call(http.MethodPost, jobPath+"/applications", seeker, map[string]string{"coverLetter": "Hire me"})
	require.Equal(t, http.StatusCreated, status, env.Error)

	status, env = api.call(http.MethodPost, jobPath+"/applications", seeker, map[string]string{"coverLetter": "Again"})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = api.call(http.MethodGet, jobPath+"/applications", seeker, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = api.call(http.MethodGet, jobPath+"/applications", poster, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = api.call(http.MethodGet, "/api/v1/jobs/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
