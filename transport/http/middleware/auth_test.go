package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"concierge/config"
	"concierge/infras/jwt"
	jwtMocks "concierge/infras/jwt/mocks"
	otelMocks "concierge/infras/otel/mocks"
	"concierge/permissions"
	"concierge/shared/session"
	sessionMocks "concierge/shared/session/mocks"
	"concierge/transport/http/middleware"
)

const (
	apiKey      = "voice-key"
	accessToken = "access-token"
)

type fixture struct {
	jwt      *jwtMocks.MockJWT
	sessions *sessionMocks.MockStore
	router   http.Handler
	reached  *session.Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.App.APIKey = apiKey

	f := &fixture{
		jwt:      jwtMocks.NewMockJWT(ctrl),
		sessions: sessionMocks.NewMockStore(ctrl),
	}

	authRole := middleware.NewAuthRoleMiddleware(f.jwt, f.sessions, otelMocks.NewOtel(), permissions.Get(), cfg)

	ok := func(w http.ResponseWriter, r *http.Request) {
		f.reached = session.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}

	router := chi.NewRouter()
	router.Route("/v1", func(group chi.Router) {
		group.Use(authRole.APIKey, authRole.Auth, authRole.RBAC)

		group.Post("/auth/login", ok)
		group.Get("/dashboard", ok)
		group.Get("/categories", ok)
		group.Get("/unlisted", ok)
	})

	f.router = router

	return f
}

func (f *fixture) do(method, path string, headers map[string]string) int {
	req := httptest.NewRequest(method, path, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec.Code
}

func (f *fixture) expectToken(userID, sessionID string) {
	f.jwt.EXPECT().ValidateToken(accessToken, jwt.AccessToken).Return(&jwt.Claims{UserID: userID, SessionID: sessionID}, nil)
}

func bearer() map[string]string {
	return map[string]string{"Authorization": "Bearer " + accessToken}
}

func TestAuthSkipsPublicEndpoints(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusOK, f.do(http.MethodPost, "/v1/auth/login", nil))
}

func TestAuthRequiresToken(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/v1/dashboard", nil))
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	f := newFixture(t)

	f.jwt.EXPECT().ValidateToken(accessToken, jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/v1/dashboard", bearer()))
}

func TestAuthRejectsEndedSession(t *testing.T) {
	f := newFixture(t)

	f.expectToken("staff-1", "session-1")
	f.sessions.EXPECT().Get(gomock.Any(), "session-1").Return(nil, session.ErrNotFound)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/v1/dashboard", bearer()))
	assert.Nil(t, f.reached)
}

func TestAuthRejectsSessionOfAnotherStaff(t *testing.T) {
	f := newFixture(t)

	f.expectToken("staff-1", "session-1")
	f.sessions.EXPECT().Get(gomock.Any(), "session-1").Return(&session.Identity{ID: "staff-2", Role: permissions.RoleAdmin}, nil)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/v1/dashboard", bearer()))
}

func TestRBAC(t *testing.T) {
	tests := []struct {
		name string
		role permissions.Role
		path string
		code int
	}{
		{name: "admin sees dashboard", role: permissions.RoleAdmin, path: "/v1/dashboard", code: http.StatusOK},
		{name: "plumber cannot see dashboard", role: permissions.RolePlumber, path: "/v1/dashboard", code: http.StatusForbidden},
		{name: "any staff lists categories", role: permissions.RoleWaiter, path: "/v1/categories", code: http.StatusOK},
		{name: "unlisted route is closed", role: permissions.RoleAdmin, path: "/v1/unlisted", code: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.expectToken("staff-1", "session-1")
			f.sessions.EXPECT().Get(gomock.Any(), "session-1").Return(&session.Identity{ID: "staff-1", Role: tt.role, IsActive: true}, nil)

			assert.Equal(t, tt.code, f.do(http.MethodGet, tt.path, bearer()))
		})
	}
}

func TestAuthAttachesIdentity(t *testing.T) {
	f := newFixture(t)

	f.expectToken("staff-1", "session-1")
	f.sessions.EXPECT().Get(gomock.Any(), "session-1").Return(&session.Identity{ID: "staff-1", Role: permissions.RoleAdmin}, nil)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/v1/dashboard", bearer()))

	if assert.NotNil(t, f.reached) {
		assert.Equal(t, "staff-1", f.reached.ID)
	}
}

func TestAPIKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		path string
		code int
	}{
		{name: "flagged endpoint admitted", key: apiKey, path: "/v1/categories", code: http.StatusOK},
		{name: "unflagged endpoint restricted", key: apiKey, path: "/v1/dashboard", code: http.StatusForbidden},
		{name: "wrong key", key: "guess", path: "/v1/categories", code: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			code := f.do(http.MethodGet, tt.path, map[string]string{"X-API-Key": tt.key})

			assert.Equal(t, tt.code, code)
		})
	}
}

func TestUnknownRouteFallsThroughToRouter(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/v1/nowhere", nil))
}
