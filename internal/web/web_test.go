package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appauth "github.com/yigit/alumnihub/internal/app/auth"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/db"
	"github.com/yigit/alumnihub/internal/middleware"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/auth"
	"github.com/yigit/alumnihub/internal/pkg/email"
	"github.com/yigit/alumnihub/internal/testutil"
)

const testCookie = "alumni_session"

type testApp struct {
	db     *db.DB
	repos  *repositories.Repositories
	router *gin.Engine
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database := testutil.NewDB(t)
	repos := repositories.NewRepositories(database)
	jwt := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "web-test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "alumnihub-test",
	})
	svc := services.NewServices(services.Dependencies{
		Repos:  repos,
		JWT:    jwt,
		Mailer: email.NewEmailService(email.SMTPConfig{}, zerolog.Nop()),
		Logger: zerolog.Nop(),
	})

	h, err := New(Options{
		Services: svc,
		Authz:    appauth.NewAuthorizationService(repos.UserRepository, repos.JobRepository),
		AuthMW:   middleware.NewAuthMiddleware(jwt, repos.UserRepository, testCookie),
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)

	router := gin.New()
	h.Register(router)
	router.NoRoute(h.NotFound)
	return &testApp{db: database, repos: repos, router: router}
}

func (a *testApp) do(method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// login signs user in through the form and returns the session cookie
func (a *testApp) login(t *testing.T, emailAddr, password string) *http.Cookie {
	t.Helper()
	rec := a.do(http.MethodPost, "/login", url.Values{"email": {emailAddr}, "password": {password}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	session := findCookie(rec, testCookie)
	require.NotNil(t, session, "login should set the session cookie")
	return session
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name && c.MaxAge >= 0 {
			return c
		}
	}
	return nil
}

func TestTemplatesParse(t *testing.T) {
	r, err := newRenderer(time.Now)
	require.NoError(t, err)

	for _, name := range []string{
		"home", "register", "login", "pending_approval", "error",
		"alumni_dashboard", "profile", "donate", "post_job", "jobs", "job_detail",
		"directory", "events", "stories", "submit_story",
		"admin_dashboard", "admin_pending_users", "admin_manage_events",
		"admin_attendees", "admin_manage_stories",
	} {
		assert.Contains(t, r.pages, name)
	}
	assert.NotContains(t, r.pages, "layout")
}

func TestHomePage(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateEvent(t, app.db, "Reunion Gala", time.Now().Add(72*time.Hour), nil)

	rec := app.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Reunion Gala")
	assert.Contains(t, rec.Body.String(), `href="/register"`)
}

func TestStaticStylesheet(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/static/glass.css", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".glass")
}

func TestUnknownPageRendersNotFound(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/no-such-page", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "does not exist")

	rec = app.do(http.MethodGet, "/jobs/9999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterThenLoginPending(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/register", url.Values{
		"email":           {"grad@example.com"},
		"password":        {"s3cretPass"},
		"first_name":      {"Grace"},
		"last_name":       {"Hopper"},
		"graduation_year": {"2012"},
		"department":      {"Mathematics"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	flash := findCookie(rec, flashCookie)
	require.NotNil(t, flash)
	rec = app.do(http.MethodGet, "/login", nil, flash)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Registration successful! Your account is pending approval.")

	rec = app.do(http.MethodPost, "/login", url.Values{"email": {"grad@example.com"}, "password": {"s3cretPass"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/pending-approval", rec.Header().Get("Location"))
	session := findCookie(rec, testCookie)
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	rec = app.do(http.MethodGet, "/pending-approval", nil, session)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(http.MethodGet, "/alumni-dashboard", nil, session)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/pending-approval", rec.Header().Get("Location"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateUser(t, app.db, testutil.WithEmail("taken@example.com"))

	rec := app.do(http.MethodPost, "/register", url.Values{
		"email":           {"taken@example.com"},
		"password":        {"s3cretPass"},
		"first_name":      {"Ada"},
		"last_name":       {"Lovelace"},
		"graduation_year": {"2010"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/register", rec.Header().Get("Location"))

	rec = app.do(http.MethodGet, "/register", nil, findCookie(rec, flashCookie))
	assert.Contains(t, rec.Body.String(), "Email already registered.")
}

func TestLoginInvalidCredentials(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateUser(t, app.db, testutil.WithEmail("member@example.com"), testutil.WithPassword("rightPass1"))

	rec := app.do(http.MethodPost, "/login", url.Values{"email": {"member@example.com"}, "password": {"wrongPass1"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Nil(t, findCookie(rec, testCookie))

	rec = app.do(http.MethodGet, "/login", nil, findCookie(rec, flashCookie))
	assert.Contains(t, rec.Body.String(), "Invalid email or password.")
}

func TestGuards(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateUser(t, app.db, testutil.Approved(), testutil.WithEmail("alum@example.com"), testutil.WithPassword("alumPass1"))
	alum := app.login(t, "alum@example.com", "alumPass1")

	tests := []struct {
		name     string
		path     string
		cookies  []*http.Cookie
		status   int
		location string
	}{
		{"anonymous member page", "/alumni-dashboard", nil, http.StatusSeeOther, "/login"},
		{"anonymous admin page", "/admin-dashboard", nil, http.StatusSeeOther, "/login"},
		{"alumni on admin page", "/admin/pending-users", []*http.Cookie{alum}, http.StatusSeeOther, "/login"},
		{"alumni dashboard", "/alumni-dashboard", []*http.Cookie{alum}, http.StatusOK, ""},
		{"directory", "/directory", []*http.Cookie{alum}, http.StatusOK, ""},
		{"approved user leaves pending page", "/pending-approval", []*http.Cookie{alum}, http.StatusSeeOther, "/alumni-dashboard"},
		{"garbage session", "/profile", []*http.Cookie{{Name: testCookie, Value: "not-a-token"}}, http.StatusSeeOther, "/login"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodGet, tt.path, nil, tt.cookies...)
			assert.Equal(t, tt.status, rec.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, rec.Header().Get("Location"))
			}
		})
	}
}

func TestDirectoryMalformedYearKeepsOtherFilters(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateUser(t, app.db, testutil.Approved(), testutil.WithEmail("alum@example.com"), testutil.WithPassword("alumPass1"),
		testutil.WithProfile(2012, "Physics", "Lab"))
	testutil.CreateUser(t, app.db, testutil.Approved(), testutil.WithName("Ada", "Lovelace"), testutil.WithProfile(2015, "CS", "Engines Ltd"))
	testutil.CreateUser(t, app.db, testutil.Approved(), testutil.WithName("Grace", "Hopper"), testutil.WithProfile(2015, "Math", "Navy"))
	session := app.login(t, "alum@example.com", "alumPass1")

	rec := app.do(http.MethodGet, "/directory?year=abc&department=CS", nil, session)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Ada Lovelace")
	assert.NotContains(t, body, "Grace Hopper")
}

func TestDirectoryFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/directory?search=+ada+&year=abc&department=CS&page=x&size=5", nil)

	filter := directoryFilter(c)
	assert.Equal(t, "ada", filter.Search)
	assert.Zero(t, filter.Year)
	assert.Equal(t, "CS", filter.Department)
	assert.Zero(t, filter.Page)
	assert.Equal(t, 5, filter.PageSize)
}

func TestAdminApprovesUser(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateUser(t, app.db, testutil.Admin(), testutil.WithEmail("admin@example.com"), testutil.WithPassword("adminPass1"))
	pending := testutil.CreateUser(t, app.db, testutil.WithName("Pending", "Person"))

	rec := app.do(http.MethodPost, "/login", url.Values{"email": {"admin@example.com"}, "password": {"adminPass1"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin-dashboard", rec.Header().Get("Location"))
	admin := findCookie(rec, testCookie)
	require.NotNil(t, admin)

	rec = app.do(http.MethodGet, "/admin/pending-users", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pending Person")

	rec = app.do(http.MethodPost, "/admin/approve-user/"+strconv.FormatInt(pending.ID, 10), url.Values{}, admin)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/pending-users", rec.Header().Get("Location"))

	stored, err := app.repos.UserRepository.GetByID(context.Background(), pending.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsApproved)

	rec = app.do(http.MethodGet, "/admin-dashboard", nil, admin)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEventRegistrationFlashes(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateUser(t, app.db, testutil.Approved(), testutil.WithEmail("alum@example.com"), testutil.WithPassword("alumPass1"))
	event := testutil.CreateEvent(t, app.db, "Homecoming", time.Now().Add(48*time.Hour), testutil.IntPtr(10))
	session := app.login(t, "alum@example.com", "alumPass1")
	target := "/events/" + strconv.FormatInt(event.ID, 10) + "/register"

	rec := app.do(http.MethodPost, target, url.Values{}, session)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = app.do(http.MethodGet, "/events", nil, session, findCookie(rec, flashCookie))
	assert.Contains(t, rec.Body.String(), "Successfully registered for the event!")

	rec = app.do(http.MethodPost, target, url.Values{}, session)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = app.do(http.MethodGet, "/events", nil, session, findCookie(rec, flashCookie))
	assert.Contains(t, rec.Body.String(), "You are already registered for this event.")
	assert.Contains(t, rec.Body.String(), "flash-info")
}

func TestLogoutClearsSession(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateUser(t, app.db, testutil.Approved(), testutil.WithEmail("alum@example.com"), testutil.WithPassword("alumPass1"))
	session := app.login(t, "alum@example.com", "alumPass1")

	rec := app.do(http.MethodPost, "/logout", url.Values{}, session)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestFlashText(t *testing.T) {
	assert.Equal(t, "Event is full.", flashText(apperrors.ErrEventFull))
	assert.Equal(t, "Already done!", flashText(apperrors.NewBadRequestError("already done!")))
}

func TestLandingPath(t *testing.T) {
	assert.Equal(t, "/admin-dashboard", landingPath(services.LandingAdminDashboard))
	assert.Equal(t, "/alumni-dashboard", landingPath(services.LandingAlumniDashboard))
	assert.Equal(t, "/pending-approval", landingPath(services.LandingPendingApproval))
}

func TestFailStatusMapping(t *testing.T) {
	status, _ := middleware.ErrorStatus(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	status, _ = middleware.ErrorStatus(apperrors.ErrEventNotFound)
	assert.Equal(t, http.StatusNotFound, status)
}
