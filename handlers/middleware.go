package handlers

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"budgetdesk/templates"
)

type contextKey string

const IdentityKey contextKey = "identity"
const HeaderDataKey contextKey = "headerData"

// publicPrefixes are reachable without signing in. /api/ and /_/ belong to
// PocketBase, which checks auth itself.
var publicPrefixes = []string{"/login", "/static/", "/api/", "/_/"}

// GetIdentity extracts the signed-in user from the request context.
func GetIdentity(r *http.Request) *Identity {
	if val, ok := r.Context().Value(IdentityKey).(*Identity); ok {
		return val
	}
	return nil
}

// GetHeaderData extracts the pre-built HeaderData from the request context.
func GetHeaderData(r *http.Request) templates.HeaderData {
	if val, ok := r.Context().Value(HeaderDataKey).(templates.HeaderData); ok {
		return val
	}
	return templates.HeaderData{ActivePath: r.URL.Path}
}

func isPublicPath(path string) bool {
	for _, p := range publicPrefixes {
		if !strings.HasSuffix(p, "/") {
			if path == p {
				return true
			}
			continue
		}
		if path == strings.TrimSuffix(p, "/") || strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// RequireAuth resolves the caller through provider and stores the identity
// and HeaderData in the request context. Anonymous requests to anything but
// the public paths are sent to /login.
func RequireAuth(provider IdentityProvider) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		path := e.Request.URL.Path
		if isPublicPath(path) {
			return e.Next()
		}

		identity, err := provider.Identify(e)
		if err != nil {
			log.Printf("middleware: could not identify caller: %v", err)
			clearAuthCookie(e)
		}
		if identity == nil {
			target := "/login"
			if path != "/" {
				target += "?next=" + url.QueryEscape(e.Request.URL.RequestURI())
			}
			if e.Request.Header.Get("HX-Request") == "true" {
				e.Response.Header().Set("HX-Redirect", target)
				return e.String(http.StatusUnauthorized, "")
			}
			return e.Redirect(http.StatusFound, target)
		}

		headerData := templates.HeaderData{
			UserEmail:  identity.Email,
			ActivePath: path,
		}
		ctx := context.WithValue(e.Request.Context(), IdentityKey, identity)
		ctx = context.WithValue(ctx, HeaderDataKey, headerData)
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}
