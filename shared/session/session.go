// Package session keeps the identity of every signed-in staff member in redis,
// keyed by a session id that is carried inside the issued tokens. Removing the
// entry signs the member out everywhere, even while their tokens are unexpired.
package session

//go:generate go run go.uber.org/mock/mockgen -source=./session.go -destination=./mocks/session_mock.go -package=mocks

import (
	"concierge/config"
	"concierge/infras/otel"
	"concierge/permissions"
	"concierge/shared/constant"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	otelScopeName        = "session"
	otelSessionKeyAttr   = "session.key"
	defaultSessionTTL    = 24 * time.Hour
	defaultSessionPrefix = "session"
)

// ErrNotFound is returned when no identity is stored for a session id.
var ErrNotFound = errors.New("session not found")

// Identity is the flat record of the signed-in staff member.
type Identity struct {
	ID       string           `json:"id"`
	Email    string           `json:"email"`
	Name     string           `json:"name"`
	Role     permissions.Role `json:"role"`
	IsActive bool             `json:"is_active"`
}

// HasPermission reports whether the identity's role grants permission.
// A nil identity has no permissions.
func (i *Identity) HasPermission(permission permissions.Permission) bool {
	if i == nil {
		return false
	}

	return permissions.HasPermission(i.Role, permission)
}

// Permissions lists what the identity's role grants.
func (i *Identity) Permissions() []permissions.Permission {
	if i == nil {
		return nil
	}

	return permissions.For(i.Role)
}

type Store interface {
	Save(ctx context.Context, sessionID string, identity Identity) error
	Get(ctx context.Context, sessionID string) (*Identity, error)
	Delete(ctx context.Context, sessionID string) error
}

type redisStore struct {
	client *redis.Client
	otel   otel.Otel
	prefix string
	ttl    time.Duration
}

// NewStore keeps sessions for as long as a refresh token stays valid.
func NewStore(client *redis.Client, cfg *config.Config, otl otel.Otel) Store {
	prefix := cfg.Session.KeyPrefix
	if prefix == "" {
		prefix = defaultSessionPrefix
	}

	ttl := time.Duration(cfg.JWT.RefreshExpireMin) * time.Minute
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}

	return &redisStore{
		client: client,
		otel:   otl,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *redisStore) key(sessionID string) string {
	return s.prefix + ":" + sessionID
}

func (s *redisStore) Save(ctx context.Context, sessionID string, identity Identity) error {
	ctx, scope := s.otel.NewScope(ctx, otelScopeName, otelScopeName+".Save")
	defer scope.End()

	key := s.key(sessionID)
	scope.SetAttribute(otelSessionKeyAttr, key)

	payload, err := json.Marshal(identity)
	if err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", key).Msg("failed to save session")

		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (s *redisStore) Get(ctx context.Context, sessionID string) (*Identity, error) {
	ctx, scope := s.otel.NewScope(ctx, otelScopeName, otelScopeName+".Get")
	defer scope.End()

	key := s.key(sessionID)
	scope.SetAttribute(otelSessionKeyAttr, key)

	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", key).Msg("failed to load session")

		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var identity Identity
	if err = json.Unmarshal(payload, &identity); err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &identity, nil
}

// Delete removes the session. Deleting a missing session is not an error.
func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	ctx, scope := s.otel.NewScope(ctx, otelScopeName, otelScopeName+".Delete")
	defer scope.End()

	key := s.key(sessionID)
	scope.SetAttribute(otelSessionKeyAttr, key)

	if err := s.client.Del(ctx, key).Err(); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", key).Msg("failed to delete session")

		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

type identityKey struct{}

// WithIdentity attaches the signed-in identity and its session id to ctx.
func WithIdentity(ctx context.Context, sessionID string, identity *Identity) context.Context {
	ctx = context.WithValue(ctx, identityKey{}, identity)
	ctx = context.WithValue(ctx, constant.ContextKeySessionID, sessionID)

	if identity != nil {
		ctx = context.WithValue(ctx, constant.ContextKeyUserID, identity.ID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, identity.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, identity.Role.String())
	}

	return ctx
}

// FromContext returns the identity attached by WithIdentity, or nil.
func FromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(identityKey{}).(*Identity)
	return identity
}

// IDFromContext returns the session id attached by WithIdentity.
func IDFromContext(ctx context.Context) string {
	sessionID, _ := ctx.Value(constant.ContextKeySessionID).(string)
	return sessionID
}

// Actor names who is acting in ctx for audit columns, falling back to the system.
func Actor(ctx context.Context) string {
	if identity := FromContext(ctx); identity != nil && identity.ID != "" {
		return identity.ID
	}

	return constant.ContextSystem
}
