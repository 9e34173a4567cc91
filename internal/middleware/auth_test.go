package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/task-tracker/internal/model"
	"github.com/iliyamo/task-tracker/internal/session"
	"github.com/iliyamo/task-tracker/internal/utils"
)

const gateSecret = "gate-test-secret"

// fakeUsers serves canned user records and records whether it was consulted.
type fakeUsers struct {
	users     map[string]model.User
	consulted bool
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (model.User, error) {
	f.consulted = true
	u, ok := f.users[username]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func runGate(t *testing.T, authHeader string, users *fakeUsers, reg session.Registry) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	h := JWTAuth(gateSecret, users, reg)(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec, reached
}

func activeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]model.User{
		"alice": {ID: 1, Username: "alice", Email: "alice@example.com", IsActive: true},
		"bob":   {ID: 2, Username: "bob", Email: "bob@example.com", IsActive: false},
	}}
}

func issue(t *testing.T, username string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(gateSecret, username, 30)
	if err != nil {
		t.Fatal(err)
	}
	return tok.Token
}

func TestGateResolvesActiveUser(t *testing.T) {
	users := activeUsers()
	rec, reached := runGate(t, "Bearer "+issue(t, "alice"), users, session.NewMemoryRegistry())
	if !reached || rec.Code != http.StatusOK {
		t.Fatalf("reached=%v code=%d", reached, rec.Code)
	}
}

func TestGateRejectsMissingToken(t *testing.T) {
	users := activeUsers()
	for _, header := range []string{"", "Basic abc", "Bearer ", "token-without-scheme"} {
		rec, reached := runGate(t, header, users, session.NewMemoryRegistry())
		if reached {
			t.Fatalf("header %q reached the handler", header)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: code = %d", header, rec.Code)
		}
		if rec.Header().Get(echo.HeaderWWWAuthenticate) != "Bearer" {
			t.Fatalf("header %q: missing WWW-Authenticate hint", header)
		}
		if users.consulted {
			t.Fatalf("header %q: store consulted before token validation", header)
		}
	}
}

func TestGateRejectsTamperedToken(t *testing.T) {
	users := activeUsers()
	other, err := utils.NewAccessToken("different-secret", "alice", 30)
	if err != nil {
		t.Fatal(err)
	}
	rec, reached := runGate(t, "Bearer "+other.Token, users, session.NewMemoryRegistry())
	if reached || rec.Code != http.StatusUnauthorized {
		t.Fatalf("reached=%v code=%d", reached, rec.Code)
	}
	if users.consulted {
		t.Fatal("store consulted for a token with a bad signature")
	}
}

func TestGateRejectsRevokedToken(t *testing.T) {
	users := activeUsers()
	reg := session.NewMemoryRegistry()
	tok := issue(t, "alice")

	if _, reached := runGate(t, "Bearer "+tok, users, reg); !reached {
		t.Fatal("token rejected before revocation")
	}
	if err := reg.Revoke(context.Background(), tok, time.Hour); err != nil {
		t.Fatal(err)
	}
	rec, reached := runGate(t, "Bearer "+tok, users, reg)
	if reached || rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token passed the gate: reached=%v code=%d", reached, rec.Code)
	}
}

func TestGateRejectsUnknownSubject(t *testing.T) {
	users := activeUsers()
	rec, reached := runGate(t, "Bearer "+issue(t, "mallory"), users, session.NewMemoryRegistry())
	if reached || rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown subject: reached=%v code=%d", reached, rec.Code)
	}
}

func TestGateRejectsInactiveAccount(t *testing.T) {
	users := activeUsers()
	rec, reached := runGate(t, "Bearer "+issue(t, "bob"), users, session.NewMemoryRegistry())
	if reached {
		t.Fatal("inactive account reached the handler")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("code = %d, want 403", rec.Code)
	}
}

func TestCurrentUserSecondStageActiveCheck(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if _, ok := CurrentUser(c); ok {
		t.Fatal("CurrentUser succeeded on an empty context")
	}

	inactive := &model.User{ID: 2, Username: "bob", IsActive: false}
	c.Set(ContextUser, inactive)
	if _, ok := CurrentUser(c); ok {
		t.Fatal("CurrentUser returned an inactive account")
	}

	active := &model.User{ID: 1, Username: "alice", IsActive: true}
	c.Set(ContextUser, active)
	u, ok := CurrentUser(c)
	if !ok || u.Username != "alice" {
		t.Fatalf("CurrentUser = %v, %v", u, ok)
	}
}

func TestBearerToken(t *testing.T) {
	if tok, ok := BearerToken("Bearer abc.def.ghi"); !ok || tok != "abc.def.ghi" {
		t.Fatalf("BearerToken = %q, %v", tok, ok)
	}
	for _, bad := range []string{"", "Bearer", "Bearer   ", "bearer abc", "Basic abc"} {
		if _, ok := BearerToken(bad); ok {
			t.Errorf("BearerToken(%q) accepted", bad)
		}
	}
}
