package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gabmartin/plantlibrary/internal/services/auth"
	"github.com/gabmartin/plantlibrary/internal/web/middleware"
	"github.com/gabmartin/plantlibrary/internal/web/templates"
)

// AuthHandler serves the signin/signup pages and manages the session cookie
type AuthHandler struct {
	authService *auth.Service
	renderer    *templates.Renderer
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service, renderer *templates.Renderer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		renderer:    renderer,
		logger:      logger,
	}
}

// SigninPage handles GET /signin
func (h *AuthHandler) SigninPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r.Context()) != nil {
		http.Redirect(w, r, "/catalog", http.StatusSeeOther)
		return
	}

	data := templates.SigninData{
		PageData: pageData(r, "Sign in"),
		Next:     r.URL.Query().Get("next"),
	}
	renderPage(w, h.renderer, "signin", data)
}

// SignupPage handles GET /signup
func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r.Context()) != nil {
		http.Redirect(w, r, "/catalog", http.StatusSeeOther)
		return
	}

	data := templates.SignupData{
		PageData: pageData(r, "Sign up"),
	}
	renderPage(w, h.renderer, "signup", data)
}

// Signup handles POST /signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form submission")
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	if msg := validateCredentials(email, password); msg != "" {
		middleware.SetFlash(w, "error", msg)
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
		return
	}

	user, err := h.authService.SignUp(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			middleware.SetFlash(w, "error", "Email already exists")
			http.Redirect(w, r, "/signup", http.StatusSeeOther)
			return
		}
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	session, err := h.authService.BindSession(r.Context(), user)
	if err != nil {
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	h.setSessionCookie(w, session.Token, session.ExpiresAt)
	http.Redirect(w, r, "/catalog", http.StatusSeeOther)
}

// Signin handles POST /signin
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form submission")
		http.Redirect(w, r, "/signin", http.StatusSeeOther)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	next := r.PostFormValue("next")

	user, err := h.authService.SignIn(r.Context(), email, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUnknownEmail):
			middleware.SetFlash(w, "error", "No user found with that email")
		case errors.Is(err, auth.ErrWrongPassword):
			middleware.SetFlash(w, "error", "Incorrect password")
		default:
			renderServerError(w, r, h.renderer, h.logger, err)
			return
		}
		http.Redirect(w, r, "/signin", http.StatusSeeOther)
		return
	}

	session, err := h.authService.BindSession(r.Context(), user)
	if err != nil {
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	h.setSessionCookie(w, session.Token, session.ExpiresAt)
	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

// Logout handles GET /logout. Signing out an already-expired session still
// clears the cookie and lands on the signin page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.authService.InvalidateSession(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("failed to invalidate session", slog.String("error", err.Error()))
		}
	}

	h.clearSessionCookie(w)
	middleware.SetFlash(w, "info", "You have been signed out")
	http.Redirect(w, r, "/signin", http.StatusSeeOther)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func validateCredentials(email, password string) string {
	switch {
	case email == "":
		return "Email is required"
	case !strings.Contains(email, "@"):
		return "Email must be a valid address"
	case len(email) > 254:
		return "Email must be at most 254 characters"
	case len(password) < 8:
		return "Password must be at least 8 characters"
	default:
		return ""
	}
}

// safeNext only honours same-site relative targets
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/catalog"
}
