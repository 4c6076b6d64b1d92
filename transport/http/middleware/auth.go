package middleware

import (
	"concierge/config"
	"concierge/infras/jwt"
	"concierge/infras/otel"
	"concierge/permissions"
	"concierge/shared/constant"
	"concierge/shared/failure"
	"concierge/shared/session"
	"concierge/transport/http/response"
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type apiKeyCtx struct{}

// Auth defines the interface for authentication middleware
type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

// Role defines the interface for role-based access control middleware
type Role interface {
	RBAC(http.Handler) http.Handler
}

// AuthRole combines all middleware interfaces
type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	sessions   session.Store
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, sessions session.Store, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		sessions:   sessions,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

// FromAPIKey reports whether the request was admitted by the service API key.
func FromAPIKey(ctx context.Context) bool {
	ok, _ := ctx.Value(apiKeyCtx{}).(bool)
	return ok
}

// endpoint finds the permissions entry for the route the request will hit.
// matched is false when no route exists, so the router can answer 404 or 405 itself.
func (m *authRoleImpl) endpoint(request *http.Request) (endpoint permissions.Endpoint, listed, matched bool) {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil || rctx.Routes == nil {
		return endpoint, false, false
	}

	path := rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path)
	if path == "" {
		return endpoint, false, false
	}

	if m.permission == nil {
		return endpoint, false, true
	}

	endpoint, listed = m.permission.FindPermissions(path, request.Method)

	return endpoint, listed, true
}

// Auth resolves the bearer token to a live session and attaches its identity.
// A token whose session was ended by logout is refused even before it expires.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "auth.middleware")

		endpoint, _, matched := m.endpoint(request)
		if !matched || endpoint.Skip || FromAPIKey(ctx) {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       endpoint.Path,
			"http.method":     request.Method,
		})

		deny := func(err error) {
			scope.TraceError(err)
			scope.End()
			response.WithError(writer, err)
		}

		tokenString, err := jwt.ExtractToken(request)
		if err != nil {
			deny(failure.Unauthorized("Missing or malformed authorization header"))

			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString, jwt.AccessToken)
		if err != nil {
			var message string

			switch {
			case errors.Is(err, jwt.ErrExpiredToken):
				message = "Token has expired"
			case errors.Is(err, jwt.ErrInvalidClaim):
				message = "Invalid token claims"
			default:
				message = "Invalid token"
			}

			deny(failure.Unauthorized(message))

			return
		}

		identity, err := m.sessions.Get(ctx, claims.SessionID)
		if errors.Is(err, session.ErrNotFound) {
			deny(failure.Unauthorized("Session has ended, please sign in again"))

			return
		}

		if err != nil {
			log.Error().Err(err).Msg("failed to load session")
			deny(err)

			return
		}

		if identity.ID != claims.UserID {
			log.Error().Str("session", claims.SessionID).Msg("session does not belong to token subject")
			deny(failure.Unauthorized("Invalid token claims"))

			return
		}

		ctx = session.WithIdentity(request.Context(), claims.SessionID, identity)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)

		scope.End()

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// RBAC checks the identity's role against the permissions listed for the route.
// Requires prior authentication via Auth middleware.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "rbac.middleware")

		endpoint, listed, matched := m.endpoint(request)

		switch {
		case !matched, m.permission != nil && m.permission.Skip, endpoint.Skip, FromAPIKey(request.Context()):
			scope.End()
			next.ServeHTTP(writer, request)

			return
		case !listed:
			// routes missing from the permission table are closed
			err := failure.ForbiddenError
			scope.TraceError(err)
			scope.End()
			response.WithError(writer, err)

			return
		}

		identity := session.FromContext(request.Context())

		if !endpoint.Allows(identity.HasPermission) {
			var role permissions.Role
			if identity != nil {
				role = identity.Role
			}

			err := failure.ForbiddenError
			scope.TraceError(err)
			scope.SetAttributes(map[string]any{
				"user_role":   role.String(),
				"permissions": endpoint.Permissions,
				"reason":      "permission_missing",
			})
			scope.End()
			response.WithError(writer, err)

			return
		}

		scope.End()
		next.ServeHTTP(writer, request)
	})
}

// APIKey admits the voice front end on the endpoints flagged for it.
// Requests without the header fall through to token authentication.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "api_key.middleware")

		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)
		if apiKey == "" {
			scope.SetAttribute("http.source", "client")
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttribute("http.source", "internal")

		expected := m.cfg.App.APIKey
		if expected == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1 {
			err := failure.Unauthorized("Invalid API key")
			scope.TraceError(err)
			scope.End()
			response.WithError(writer, err)

			return
		}

		if endpoint, _, matched := m.endpoint(request); matched && !endpoint.APIKey {
			err := failure.ResourceRestrictedError
			scope.TraceError(err)
			scope.End()
			response.WithError(writer, err)

			return
		}

		ctx = context.WithValue(ctx, apiKeyCtx{}, true)

		scope.End()
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}
