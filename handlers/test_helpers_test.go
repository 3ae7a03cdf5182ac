package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// newFormRequest builds a urlencoded form request.
func newFormRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// withIdentity stores identity in the request context the way RequireAuth does.
func withIdentity(req *http.Request, identity *Identity) *http.Request {
	ctx := context.WithValue(req.Context(), IdentityKey, identity)
	return req.WithContext(ctx)
}

// fakeIdentityProvider returns a fixed identity.
type fakeIdentityProvider struct {
	identity *Identity
	err      error
	calls    int
}

func (p *fakeIdentityProvider) Identify(e *core.RequestEvent) (*Identity, error) {
	p.calls++
	return p.identity, p.err
}
