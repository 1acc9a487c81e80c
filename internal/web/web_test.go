package web_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/gabmartin/plantlibrary/internal/factory"
	"github.com/gabmartin/plantlibrary/internal/web"
)

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.App
	cookies *cookieJar
}

// newWebTestServer creates a new test server with all dependencies wired
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := factory.New(context.Background(), factory.Config{})
	require.NoError(t, err)

	router := web.NewRouter(web.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		CatalogService: app.CatalogService,
		Renderer:       app.Renderer,
		Metrics:        app.Metrics,
		StaticDir:      "", // No static files in tests
	})

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
		cookies: newCookieJar(),
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	// Add cookies from jar
	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	// Extract Set-Cookie headers into jar
	ts.cookies.extract(rr)

	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil)
}

// post makes a POST request with form data
func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form)
}

// followRedirect asserts rr is a redirect and GETs its target
func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "expected a redirect")
	location := rr.Header().Get("Location")
	require.NotEmpty(ts.t, location, "redirect without Location header")
	return ts.get(location)
}

// parseHTML parses the response body as HTML
func parseHTML(t *testing.T, rr *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rr.Body)
	require.NoError(t, err)
	return doc
}

// flashText returns the flash banner's text, or "" when absent
func flashText(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find(".flash").Text())
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

// extract extracts Set-Cookie headers from response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			// Cookie being deleted
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

// hasSession returns true if the session cookie is set
func (j *cookieJar) hasSession() bool {
	_, ok := j.cookies["session"]
	return ok
}

// sessionToken returns the current session cookie value
func (j *cookieJar) sessionToken() string {
	cookie, ok := j.cookies["session"]
	if !ok {
		return ""
	}
	return cookie.Value
}

// signUp registers an account through the signup form and leaves the
// browser signed in
func (ts *webTestServer) signUp(email, password string) {
	ts.t.Helper()
	form := url.Values{"email": {email}, "password": {password}}
	rr := ts.post("/signup", form)
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "expected redirect after signup")
	require.Equal(ts.t, "/catalog", rr.Header().Get("Location"))
	require.True(ts.t, ts.cookies.hasSession(), "expected session cookie after signup")
}

// signOut logs the browser out
func (ts *webTestServer) signOut() {
	ts.t.Helper()
	rr := ts.get("/logout")
	require.Equal(ts.t, http.StatusSeeOther, rr.Code)
}
