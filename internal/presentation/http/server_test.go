package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	stdhttp "net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	dataaccounts "sdaadmin/app/internal/data/accounts"
	datacontent "sdaadmin/app/internal/data/content"
	"sdaadmin/app/internal/data/database"
	"sdaadmin/app/internal/data/migrations"
	"sdaadmin/app/internal/domain/accounts"
	"sdaadmin/app/internal/domain/admin"
	"sdaadmin/app/internal/domain/media"
	"sdaadmin/app/internal/infrastructure/upload"
)

const (
	testUsername = "admin"
	testPassword = "admin123"
	uploadedURL  = "https://cdn.example/uploaded.png"
)

func TestAdminRedirectsAnonymousToLogin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, httptest.NewRequest("GET", "/admin/projects", nil), nil)

	if rec.Code != stdhttp.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/admin/login?next=%2Fadmin%2Fprojects" {
		t.Fatalf("unexpected redirect %q", location)
	}
}

func TestRootRedirectsToAdmin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, httptest.NewRequest("GET", "/", nil), nil)

	if rec.Code != stdhttp.StatusFound || rec.Header().Get("Location") != adminRoot {
		t.Fatalf("expected redirect to %s, got %d %q", adminRoot, rec.Code, rec.Header().Get("Location"))
	}
}

func TestLoginPageRenders(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, httptest.NewRequest("GET", "/admin/login?next=%2Fadmin%2Fnews", nil), nil)

	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != htmlContentType {
		t.Fatalf("expected content type %q, got %q", htmlContentType, ct)
	}
	body := rec.Body.String()
	if !contains(body, `name="password"`) || !contains(body, `value="/admin/news"`) {
		t.Fatalf("expected login form with next path, got %q", body)
	}
}

func TestLoginRejectsInvalidCredentials(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, loginRequest(testUsername, "wrong-password", ""), nil)

	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !contains(rec.Body.String(), "Please enter a correct username and password.") {
		t.Fatalf("expected invalid login message, got %q", rec.Body.String())
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("expected no session cookie on failure")
	}
}

func TestLoginThrottlesRepeatedFailures(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	for attempt := 0; attempt < 3; attempt++ {
		rec := env.do(t, loginRequest(testUsername, "wrong-password", ""), nil)
		if rec.Code != stdhttp.StatusOK {
			t.Fatalf("attempt %d: expected status 200, got %d", attempt, rec.Code)
		}
	}

	rec := env.do(t, loginRequest(testUsername, testPassword, ""), nil)
	if rec.Code != stdhttp.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
}

func TestLoginThrottleIgnoresSpoofedForwardedFor(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	for attempt := 0; attempt < 3; attempt++ {
		req := loginRequest(testUsername, "wrong-password", "")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", attempt+1))
		req.Header.Set("X-Real-IP", fmt.Sprintf("198.51.100.%d", attempt+1))
		rec := env.do(t, req, nil)
		if rec.Code != stdhttp.StatusOK {
			t.Fatalf("attempt %d: expected status 200, got %d", attempt, rec.Code)
		}
	}

	req := loginRequest(testUsername, "wrong-password", "")
	req.Header.Set("X-Forwarded-For", "198.51.100.99")
	rec := env.do(t, req, nil)
	if rec.Code != stdhttp.StatusTooManyRequests {
		t.Fatalf("expected status 429 with a fresh X-Forwarded-For, got %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/api/resources", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.100")
	req.SetBasicAuth(testUsername, "wrong-password")
	rec = env.do(t, req, nil)
	if rec.Code != stdhttp.StatusTooManyRequests {
		t.Fatalf("expected api basic auth to share the throttle, got %d", rec.Code)
	}
}

func TestLoginThrottleUsesForwardedForFromTrustedProxy(t *testing.T) {
	t.Parallel()

	// httptest requests arrive from 192.0.2.1.
	env := newTestEnv(t, withTrustedProxies("192.0.2.0/24"))

	for attempt := 0; attempt < 3; attempt++ {
		req := loginRequest(testUsername, "wrong-password", "")
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		env.do(t, req, nil)
	}

	req := loginRequest(testUsername, testPassword, "")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec := env.do(t, req, nil)
	if rec.Code != stdhttp.StatusTooManyRequests {
		t.Fatalf("expected throttled client to get 429, got %d", rec.Code)
	}

	req = loginRequest(testUsername, testPassword, "")
	req.Header.Set("X-Forwarded-For", "203.0.113.8")
	rec = env.do(t, req, nil)
	if rec.Code != stdhttp.StatusSeeOther {
		t.Fatalf("expected other client behind the proxy to sign in, got %d", rec.Code)
	}
}

func TestLoginStartsSessionAndRedirects(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, loginRequest(testUsername, testPassword, "/admin/news"), nil)

	if rec.Code != stdhttp.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/admin/news" {
		t.Fatalf("expected redirect to next path, got %q", location)
	}

	cookies := rec.Result().Cookies()
	dashboard := env.do(t, httptest.NewRequest("GET", "/admin", nil), cookies)
	if dashboard.Code != stdhttp.StatusOK {
		t.Fatalf("expected dashboard status 200, got %d", dashboard.Code)
	}
	body := dashboard.Body.String()
	if !contains(body, "Projects") || !contains(body, testUsername) {
		t.Fatalf("expected dashboard with resources and username, got %q", body)
	}
}

func TestLoginIgnoresForeignNext(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, loginRequest(testUsername, testPassword, "https://evil.example/"), nil)

	if location := rec.Header().Get("Location"); location != adminRoot {
		t.Fatalf("expected redirect to %s, got %q", adminRoot, location)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cookies := env.login(t)

	rec := env.do(t, httptest.NewRequest("POST", logoutPath, nil), cookies)
	if rec.Code != stdhttp.StatusSeeOther || rec.Header().Get("Location") != loginPath {
		t.Fatalf("expected redirect to login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	cleared := rec.Result().Cookies()
	if len(cleared) == 0 || cleared[0].MaxAge >= 0 {
		t.Fatalf("expected expired session cookie, got %+v", cleared)
	}
}

func TestAPIRequiresCredentials(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, httptest.NewRequest("GET", "/api/resources", nil), nil)
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Fatalf("expected WWW-Authenticate header")
	}

	req := httptest.NewRequest("GET", "/api/resources", nil)
	req.SetBasicAuth(testUsername, "wrong-password")
	rec = env.do(t, req, nil)
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("expected status 401 for bad credentials, got %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/api/resources", nil)
	req.SetBasicAuth(testUsername, testPassword)
	rec = env.do(t, req, nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !contains(rec.Body.String(), `"key":"project-photos"`) {
		t.Fatalf("expected resource definitions, got %q", rec.Body.String())
	}
}

func TestAPICreateAndFetchRecord(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	location := env.createProject(t, "Harbour Tower")

	if !strings.HasPrefix(location, "/api/resources/projects/") {
		t.Fatalf("unexpected location %q", location)
	}

	req := httptest.NewRequest("GET", location, nil)
	req.SetBasicAuth(testUsername, testPassword)
	rec := env.do(t, req, nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !contains(rec.Body.String(), "Harbour Tower") {
		t.Fatalf("expected stored title, got %q", rec.Body.String())
	}
}

func TestAPIValidationReportsFieldErrors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	req := httptest.NewRequest("POST", "/api/resources/projects", strings.NewReader(`{"year":"soon"}`))
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(testUsername, testPassword)

	rec := env.do(t, req, nil)
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", rec.Code, rec.Body.String())
	}
	if !contains(rec.Body.String(), "body.year") {
		t.Fatalf("expected field location in problem details, got %q", rec.Body.String())
	}
}

func TestAPIUploadRelaysFile(t *testing.T) {
	t.Parallel()

	endpoint := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		if _, _, err := r.FormFile("file"); err != nil {
			stdhttp.Error(w, err.Error(), stdhttp.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"https://cdn.example/relayed.png"}`))
	}))
	t.Cleanup(endpoint.Close)

	env := newTestEnv(t, withUploadRelay(t, endpoint.URL))
	req := multipartRequest(t, "/api/uploads", nil, map[string][]byte{"file": []byte("png-bytes")})
	req.SetBasicAuth(testUsername, testPassword)

	rec := env.do(t, req, nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !contains(rec.Body.String(), `"url":"https://cdn.example/relayed.png"`) {
		t.Fatalf("expected relayed URL, got %q", rec.Body.String())
	}
}

func TestAPIUploadEndpointFailureIsFieldError(t *testing.T) {
	t.Parallel()

	endpoint := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		stdhttp.Error(w, "storage offline", stdhttp.StatusInternalServerError)
	}))
	t.Cleanup(endpoint.Close)

	env := newTestEnv(t, withUploadRelay(t, endpoint.URL))
	req := multipartRequest(t, "/api/uploads", nil, map[string][]byte{"file": []byte("png-bytes")})
	req.SetBasicAuth(testUsername, testPassword)

	rec := env.do(t, req, nil)
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !contains(body, "body.file") || !contains(body, "Upload failed: 500 storage offline") {
		t.Fatalf("expected upload field error, got %q", body)
	}
}

func TestAPIUploadRequiresFile(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	req := multipartRequest(t, "/api/uploads", map[string]string{"note": "empty"}, nil)
	req.SetBasicAuth(testUsername, testPassword)

	rec := env.do(t, req, nil)
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", rec.Code, rec.Body.String())
	}
	if !contains(rec.Body.String(), "No file was submitted.") {
		t.Fatalf("expected missing file message, got %q", rec.Body.String())
	}
	if env.store.calls() != 0 {
		t.Fatalf("expected no relay call, got %d", env.store.calls())
	}
}

func TestAPIAttachFileStoresRelayedURL(t *testing.T) {
	t.Parallel()

	endpoint := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"https://cdn.example/cover.png"}`))
	}))
	t.Cleanup(endpoint.Close)

	env := newTestEnv(t, withUploadRelay(t, endpoint.URL))
	location := env.createProject(t, "Harbour Tower")

	req := multipartRequest(t, location+"/files/cover_photo_url", nil, map[string][]byte{"file": []byte("png-bytes")})
	req.SetBasicAuth(testUsername, testPassword)
	rec := env.do(t, req, nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !contains(rec.Body.String(), `"cover_photo_url":"https://cdn.example/cover.png"`) {
		t.Fatalf("expected stored cover photo URL, got %q", rec.Body.String())
	}

	req = httptest.NewRequest("GET", location, nil)
	req.SetBasicAuth(testUsername, testPassword)
	rec = env.do(t, req, nil)
	if !contains(rec.Body.String(), "https://cdn.example/cover.png") {
		t.Fatalf("expected persisted cover photo URL, got %q", rec.Body.String())
	}
}

func TestAPIAttachFileRejectsUnknownField(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	location := env.createProject(t, "Harbour Tower")

	req := multipartRequest(t, location+"/files/title", nil, map[string][]byte{"file": []byte("png-bytes")})
	req.SetBasicAuth(testUsername, testPassword)
	rec := env.do(t, req, nil)
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", rec.Code, rec.Body.String())
	}
	if env.store.calls() != 0 {
		t.Fatalf("expected no relay call for a non-file field, got %d", env.store.calls())
	}
}

func TestListPageShowsNoImagePlaceholder(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.createProject(t, "Harbour Tower")
	cookies := env.login(t)

	rec := env.do(t, httptest.NewRequest("GET", "/admin/projects", nil), cookies)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	if !contains(body, "Harbour Tower") {
		t.Fatalf("expected project title in list, got %q", body)
	}
	if !contains(body, noImageLabel) {
		t.Fatalf("expected %q placeholder, got %q", noImageLabel, body)
	}
}

func TestListPageSearchFilters(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.createProject(t, "Harbour Tower")
	env.createProject(t, "Green Villa")
	cookies := env.login(t)

	rec := env.do(t, httptest.NewRequest("GET", "/admin/projects?q=harbour", nil), cookies)
	body := rec.Body.String()
	if !contains(body, "Harbour Tower") || contains(body, "Green Villa") {
		t.Fatalf("expected only the matching project, got %q", body)
	}
}

func TestListPageRedirectsPastLastPage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cookies := env.login(t)

	rec := env.do(t, httptest.NewRequest("GET", "/admin/projects?page=5", nil), cookies)
	if rec.Code != stdhttp.StatusSeeOther || rec.Header().Get("Location") != "/admin/projects" {
		t.Fatalf("expected redirect to the first page, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestUnknownResourceReturns404(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cookies := env.login(t)

	rec := env.do(t, httptest.NewRequest("GET", "/admin/nope", nil), cookies)
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if !contains(rec.Body.String(), unknownMessage) {
		t.Fatalf("expected unknown resource message, got %q", rec.Body.String())
	}
}

func TestMalformedPageParametersRenderHTMLErrors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cookies := env.login(t)

	cases := []struct {
		target string
		status int
		want   string
	}{
		{target: "/admin/projects/abc", status: stdhttp.StatusNotFound, want: notFoundMessage},
		{target: "/admin/projects/abc/delete", status: stdhttp.StatusNotFound, want: notFoundMessage},
		{target: "/admin/projects/0", status: stdhttp.StatusNotFound, want: notFoundMessage},
		{target: "/admin/projects?page=x", status: stdhttp.StatusBadRequest, want: badPageMessage},
		{target: "/admin/project-photos?parent=x", status: stdhttp.StatusBadRequest, want: badParentMessage},
		{target: "/admin/project-photos/new?parent=-1", status: stdhttp.StatusBadRequest, want: badParentMessage},
	}

	for _, tc := range cases {
		rec := env.do(t, httptest.NewRequest("GET", tc.target, nil), cookies)
		if rec.Code != tc.status {
			t.Fatalf("%s: expected status %d, got %d: %s", tc.target, tc.status, rec.Code, rec.Body.String())
		}
		if got := rec.Header().Get("Content-Type"); got != htmlContentType {
			t.Fatalf("%s: expected html content type, got %q", tc.target, got)
		}
		if !contains(rec.Body.String(), templ.EscapeString(tc.want)) {
			t.Fatalf("%s: expected %q in error page, got %q", tc.target, tc.want, rec.Body.String())
		}
	}
}

func TestFormCreateRelaysUploadAndRedirects(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cookies := env.login(t)

	req := multipartRequest(t, "/admin/projects", map[string]string{"title.en": "Villa"}, map[string][]byte{
		"cover_photo_url": []byte("png-bytes"),
	})
	rec := env.do(t, req, cookies)

	if rec.Code != stdhttp.StatusSeeOther {
		t.Fatalf("expected status 303, got %d: %s", rec.Code, rec.Body.String())
	}
	if location := rec.Header().Get("Location"); location != "/admin/projects?done=saved" {
		t.Fatalf("unexpected redirect %q", location)
	}
	if env.store.calls() != 1 {
		t.Fatalf("expected one relayed upload, got %d", env.store.calls())
	}

	list := env.do(t, httptest.NewRequest("GET", "/admin/projects?done=saved", nil), cookies)
	body := list.Body.String()
	if !contains(body, uploadedURL) || !contains(body, "saved successfully") {
		t.Fatalf("expected stored image and flash, got %q", body)
	}
}

func TestFormContinueEditingRedirectsToRecord(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cookies := env.login(t)

	req := multipartRequest(t, "/admin/projects", map[string]string{"title.en": "Villa", "_action": actionContinue}, nil)
	rec := env.do(t, req, cookies)

	location := rec.Header().Get("Location")
	if rec.Code != stdhttp.StatusSeeOther || !strings.HasPrefix(location, "/admin/projects/") || !strings.HasSuffix(location, "?done=saved") {
		t.Fatalf("expected redirect to the edit page, got %d %q", rec.Code, location)
	}

	edit := env.do(t, httptest.NewRequest("GET", location, nil), cookies)
	if edit.Code != stdhttp.StatusOK || !contains(edit.Body.String(), "Project photos") {
		t.Fatalf("expected edit page with inline children, got %d %q", edit.Code, edit.Body.String())
	}
}

func TestFormValidationRerendersWithErrors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cookies := env.login(t)

	req := multipartRequest(t, "/admin/project-photos", map[string]string{"project_id": "999", "order": "x"}, nil)
	rec := env.do(t, req, cookies)

	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !contains(body, formErrorMessage) || !contains(body, `class="errors"`) {
		t.Fatalf("expected form errors, got %q", body)
	}
	if env.store.calls() != 0 {
		t.Fatalf("expected no upload on invalid form")
	}
}

func TestFormUploadFailureIsFieldError(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.store.err = &media.UploadError{Status: stdhttp.StatusBadGateway, Message: "storage offline"}
	cookies := env.login(t)

	req := multipartRequest(t, "/admin/projects", map[string]string{"title.en": "Villa"}, map[string][]byte{
		"cover_photo_url": []byte("png-bytes"),
	})
	rec := env.do(t, req, cookies)

	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
	if !contains(rec.Body.String(), "Upload failed: storage offline") {
		t.Fatalf("expected upload error next to the field, got %q", rec.Body.String())
	}

	page, err := env.admin.List(context.Background(), admin.ResourceProjects, admin.ListOptions{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if page.Total != 0 {
		t.Fatalf("expected nothing saved, got %d records", page.Total)
	}
}

func TestDeleteFormRemovesRecord(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	location := env.createProject(t, "Harbour Tower")
	id := location[strings.LastIndex(location, "/")+1:]
	cookies := env.login(t)

	confirm := env.do(t, httptest.NewRequest("GET", "/admin/projects/"+id+"/delete", nil), cookies)
	if confirm.Code != stdhttp.StatusOK || !contains(confirm.Body.String(), "Harbour Tower") {
		t.Fatalf("expected confirmation page, got %d %q", confirm.Code, confirm.Body.String())
	}

	rec := env.do(t, httptest.NewRequest("POST", "/admin/projects/"+id+"/delete", nil), cookies)
	if rec.Code != stdhttp.StatusSeeOther || rec.Header().Get("Location") != "/admin/projects?done=deleted" {
		t.Fatalf("expected redirect to list, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	missing := env.do(t, httptest.NewRequest("GET", "/admin/projects/"+id, nil), cookies)
	if missing.Code != stdhttp.StatusNotFound {
		t.Fatalf("expected status 404 after delete, got %d", missing.Code)
	}
}

func TestHealthRouteReportsOK(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, httptest.NewRequest("GET", "/healthz", nil), nil)

	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !contains(rec.Body.String(), `"database":"ok"`) {
		t.Fatalf("expected database ok, got %q", rec.Body.String())
	}
}

func TestStaticStylesheetIsPublic(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, httptest.NewRequest("GET", "/static/admin.css", nil), nil)

	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, httptest.NewRequest("GET", "/healthz", nil), nil)

	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header")
	}
}

func TestSafeReturn(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"/admin/projects/3":            "/admin/projects/3",
		"/admin":                       "/admin",
		"/admin/news?page=2":           "/admin/news?page=2",
		"//evil.example/admin":         "",
		"https://evil.example/admin/x": "",
		"/api/resources":               "",
		`/admin\evil`:                  "",
		"":                             "",
	}

	for input, want := range cases {
		if got := safeReturn(input); got != want {
			t.Fatalf("safeReturn(%q) = %q, want %q", input, got, want)
		}
	}
}

// helper utilities

type testEnv struct {
	srv      *Server
	admin    admin.Service
	accounts accounts.Service
	store    *stubStore
}

type testEnvConfig struct {
	store          media.Store
	trustedProxies []string
}

type testEnvOption func(*testEnvConfig)

func withTrustedProxies(proxies ...string) testEnvOption {
	return func(cfg *testEnvConfig) { cfg.trustedProxies = proxies }
}

// withUploadRelay sends uploads to endpoint through the real relay.
func withUploadRelay(t *testing.T, endpoint string) testEnvOption {
	t.Helper()

	relay, err := upload.NewRelay(upload.Options{Endpoint: endpoint, MaxAttempts: 1})
	if err != nil {
		t.Fatalf("upload.NewRelay returned error: %v", err)
	}
	return func(cfg *testEnvConfig) { cfg.store = relay }
}

func newTestEnv(t *testing.T, options ...testEnvOption) *testEnv {
	t.Helper()

	ctx := context.Background()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db := openTestDatabase(t)
	if err := migrations.Migrate(ctx, db, logger, migrations.Options{ManageContent: true}); err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}

	contentRepo, err := datacontent.NewRepository(db, logger)
	if err != nil {
		t.Fatalf("content repository: %v", err)
	}
	accountRepo, err := dataaccounts.NewRepository(db, logger)
	if err != nil {
		t.Fatalf("account repository: %v", err)
	}

	store := &stubStore{url: uploadedURL}
	cfg := testEnvConfig{store: store}
	for _, option := range options {
		option(&cfg)
	}

	adminService, err := admin.NewService(admin.DefaultRegistry(), contentRepo, cfg.store, admin.Settings{MaxUploadBytes: 1 << 20}, logger, nil)
	if err != nil {
		t.Fatalf("admin.NewService returned error: %v", err)
	}
	accountService, err := accounts.NewService(accountRepo, bcrypt.MinCost, logger, nil)
	if err != nil {
		t.Fatalf("accounts.NewService returned error: %v", err)
	}
	if _, err := accountService.Create(ctx, accounts.CreateParams{Username: testUsername, Email: "admin@sda.com", Password: testPassword}); err != nil {
		t.Fatalf("creating admin user: %v", err)
	}

	srv, err := NewServer(Options{
		AdminService:   adminService,
		AccountService: accountService,
		Database:       db,
		Logger:         logger,
		RateLimiter: RateLimiterSettings{
			Burst:             3,
			RequestsPerSecond: 0.01,
			ClientTTL:         time.Minute,
		},
		Session:         SessionSettings{Secret: []byte(strings.Repeat("k", 32))},
		DefaultLanguage: "en",
		MaxUploadBytes:  1 << 20,
		TrustedProxies:  cfg.trustedProxies,
	})
	if err != nil {
		t.Fatalf("NewServer returned error: %v", err)
	}
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, admin: adminService, accounts: accountService, store: store}
}

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.Options{Driver: database.DriverSQLite, Path: filepath.Join(t.TempDir(), "admin.db")})
	if err != nil {
		t.Fatalf("database.Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(db); err != nil {
			t.Errorf("closing database failed: %v", err)
		}
	})
	return db
}

func (e *testEnv) do(t *testing.T, req *stdhttp.Request, cookies []*stdhttp.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T) []*stdhttp.Cookie {
	t.Helper()

	rec := e.do(t, loginRequest(testUsername, testPassword, ""), nil)
	if rec.Code != stdhttp.StatusSeeOther {
		t.Fatalf("login failed with status %d", rec.Code)
	}
	return rec.Result().Cookies()
}

// createProject stores a project through the JSON API and returns its location.
func (e *testEnv) createProject(t *testing.T, title string) string {
	t.Helper()

	body := `{"title":{"en":"` + title + `"}}`
	req := httptest.NewRequest("POST", "/api/resources/projects", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(testUsername, testPassword)

	rec := e.do(t, req, nil)
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	return rec.Header().Get("Location")
}

func loginRequest(username, password, next string) *stdhttp.Request {
	form := url.Values{"username": {username}, "password": {password}}
	if next != "" {
		form.Set("next", next)
	}
	req := httptest.NewRequest("POST", loginPath, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func multipartRequest(t *testing.T, target string, fields map[string]string, files map[string][]byte) *stdhttp.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("writing field %s: %v", name, err)
		}
	}
	for name, data := range files {
		part, err := writer.CreateFormFile(name, name+".png")
		if err != nil {
			t.Fatalf("creating file %s: %v", name, err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("writing file %s: %v", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func contains(body, substring string) bool {
	return strings.Contains(body, substring)
}

// stubs

type stubStore struct {
	mu    sync.Mutex
	url   string
	err   error
	count int
}

func (s *stubStore) Store(_ context.Context, _ media.File) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.count++
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

func (s *stubStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

var _ media.Store = (*stubStore)(nil)
