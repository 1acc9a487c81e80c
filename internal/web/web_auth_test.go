package web_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootShowsSigninPage(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(t, rr)
	assert.Equal(t, 1, doc.Find(`form[action="/signin"]`).Length())
}

func TestProtectedPageRedirectsToSignin(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/catalog")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/signin?next="+url.QueryEscape("/catalog"), rr.Header().Get("Location"))
}

func TestSignupSignsUserIn(t *testing.T) {
	ts := newWebTestServer(t)

	ts.signUp("alice@example.com", "password123")

	// The cookie holds an opaque token, not the identity
	token := ts.cookies.sessionToken()
	assert.True(t, strings.HasPrefix(token, "sess_"))
	assert.NotContains(t, token, "alice")

	doc := parseHTML(t, ts.get("/catalog"))
	assert.Contains(t, doc.Find("nav").Text(), "alice@example.com")
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signUp("alice@example.com", "password123")
	ts.signOut()

	form := url.Values{"email": {"alice@example.com"}, "password": {"different1"}}
	rr := ts.post("/signup", form)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/signup", rr.Header().Get("Location"))
	assert.False(t, ts.cookies.hasSession())

	doc := parseHTML(t, ts.followRedirect(rr))
	assert.Equal(t, "Email already exists", flashText(doc))
}

func TestSignupRejectsShortPassword(t *testing.T) {
	ts := newWebTestServer(t)

	form := url.Values{"email": {"alice@example.com"}, "password": {"short"}}
	rr := ts.post("/signup", form)
	require.Equal(t, http.StatusSeeOther, rr.Code)

	doc := parseHTML(t, ts.followRedirect(rr))
	assert.Contains(t, flashText(doc), "Password must be at least 8 characters")
}

func TestSigninWithUnknownEmail(t *testing.T) {
	ts := newWebTestServer(t)

	form := url.Values{"email": {"nobody@example.com"}, "password": {"password123"}}
	rr := ts.post("/signin", form)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/signin", rr.Header().Get("Location"))

	doc := parseHTML(t, ts.followRedirect(rr))
	assert.Equal(t, "No user found with that email", flashText(doc))
}

func TestSigninWithWrongPassword(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signUp("alice@example.com", "password123")
	ts.signOut()

	form := url.Values{"email": {"alice@example.com"}, "password": {"wrongpassword"}}
	rr := ts.post("/signin", form)
	require.Equal(t, http.StatusSeeOther, rr.Code)

	doc := parseHTML(t, ts.followRedirect(rr))
	assert.Equal(t, "Incorrect password", flashText(doc))
	assert.False(t, ts.cookies.hasSession())
}

func TestSigninHonoursNextTarget(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signUp("alice@example.com", "password123")
	ts.signOut()

	form := url.Values{
		"email":    {"alice@example.com"},
		"password": {"password123"},
		"next":     {"/catalog/plants"},
	}
	rr := ts.post("/signin", form)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/catalog/plants", rr.Header().Get("Location"))
}

func TestSigninIgnoresOffsiteNextTarget(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signUp("alice@example.com", "password123")
	ts.signOut()

	form := url.Values{
		"email":    {"alice@example.com"},
		"password": {"password123"},
		"next":     {"https://evil.example.com/"},
	}
	rr := ts.post("/signin", form)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/catalog", rr.Header().Get("Location"))
}

func TestFlashIsShownOnce(t *testing.T) {
	ts := newWebTestServer(t)

	form := url.Values{"email": {"nobody@example.com"}, "password": {"password123"}}
	rr := ts.post("/signin", form)

	doc := parseHTML(t, ts.followRedirect(rr))
	require.NotEmpty(t, flashText(doc))

	// Reloading must not replay the message
	doc = parseHTML(t, ts.get("/signin"))
	assert.Empty(t, flashText(doc))
}

func TestLogoutEndsSession(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signUp("alice@example.com", "password123")
	token := ts.cookies.sessionToken()

	rr := ts.get("/logout")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/signin", rr.Header().Get("Location"))
	assert.False(t, ts.cookies.hasSession())

	// The old token no longer resolves server-side
	_, err := ts.app.AuthService.ResolveSession(t.Context(), token)
	assert.Error(t, err)

	// And the catalog is protected again
	rr = ts.get("/catalog")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestLogoutIsIdempotent(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signUp("alice@example.com", "password123")

	ts.signOut()
	rr := ts.get("/logout")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestSigninPageRedirectsWhenAuthenticated(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signUp("alice@example.com", "password123")

	rr := ts.get("/signin")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/catalog", rr.Header().Get("Location"))
}

func TestStaleSessionCookieIsRejected(t *testing.T) {
	ts := newWebTestServer(t)

	ts.cookies.cookies["session"] = &http.Cookie{Name: "session", Value: "sess_forged"}

	rr := ts.get("/catalog")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Contains(t, rr.Header().Get("Location"), "/signin")
}
