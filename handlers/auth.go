package handlers

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetdesk/templates"
)

// AuthCookieName holds the users auth token of a signed-in browser.
const AuthCookieName = "bd_auth"

// Identity is the signed-in user as the handlers see it.
type Identity struct {
	ID    string
	Email string
	Name  string
}

// IdentityProvider resolves who is making a request. A nil identity with a
// nil error means the request is anonymous.
type IdentityProvider interface {
	Identify(e *core.RequestEvent) (*Identity, error)
}

// CookieIdentityProvider reads the auth token from the bd_auth cookie.
type CookieIdentityProvider struct {
	App core.App
}

// Identify implements IdentityProvider.
func (p CookieIdentityProvider) Identify(e *core.RequestEvent) (*Identity, error) {
	cookie, err := e.Request.Cookie(AuthCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	rec, err := p.App.FindAuthRecordByToken(cookie.Value, core.TokenTypeAuth)
	if err != nil {
		return nil, fmt.Errorf("resolve auth token: %w", err)
	}
	e.Auth = rec
	return identityFromRecord(rec), nil
}

func identityFromRecord(rec *core.Record) *Identity {
	return &Identity{
		ID:    rec.Id,
		Email: rec.Email(),
		Name:  rec.GetString("name"),
	}
}

// userID returns the id of the signed-in user, or "" when unknown.
func userID(e *core.RequestEvent) string {
	if id := GetIdentity(e.Request); id != nil {
		return id.ID
	}
	return ""
}

func clearAuthCookie(e *core.RequestEvent) {
	http.SetCookie(e.Response, &http.Cookie{
		Name:   AuthCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// safeNext keeps post-login redirects on this site. Browsers read "/\" like
// "//", so backslashes are refused along with anything carrying a host.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") ||
		strings.ContainsAny(next, "\\\r\n\t") || strings.HasPrefix(next, "/login") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return next
}

// HandleLoginPage renders the sign-in form.
func HandleLoginPage(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data := templates.LoginData{Next: e.Request.URL.Query().Get("next")}
		return templates.LoginPage(data).Render(e.Request.Context(), e.Response)
	}
}

// HandleLogin checks the credentials against the users collection and sets
// the auth cookie.
func HandleLogin(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			log.Printf("login: could not parse form: %v", err)
			return e.String(http.StatusBadRequest, "Invalid form data")
		}

		email := strings.TrimSpace(e.Request.FormValue("email"))
		password := e.Request.FormValue("password")
		next := e.Request.FormValue("next")

		fail := func() error {
			e.Response.WriteHeader(http.StatusUnauthorized)
			data := templates.LoginData{Email: email, Next: next, Error: "Invalid email or password"}
			return templates.LoginPage(data).Render(e.Request.Context(), e.Response)
		}

		if email == "" || password == "" {
			return fail()
		}
		rec, err := app.FindAuthRecordByEmail("users", email)
		if err != nil || !rec.ValidatePassword(password) {
			return fail()
		}

		token, err := rec.NewAuthToken()
		if err != nil {
			log.Printf("login: could not issue token for %s: %v", email, err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		http.SetCookie(e.Response, &http.Cookie{
			Name:     AuthCookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   int(rec.Collection().AuthToken.Duration),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		return e.Redirect(http.StatusFound, safeNext(next))
	}
}

// HandleLogout clears the auth cookie.
func HandleLogout(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		clearAuthCookie(e)
		return redirect(e, "/login")
	}
}
