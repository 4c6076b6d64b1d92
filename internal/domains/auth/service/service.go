package service

import (
	"concierge/config"
	"concierge/infras/jwt"
	"concierge/infras/otel"
	"concierge/internal/domains/auth/model/dto"
	staffDto "concierge/internal/domains/staff/model/dto"
	staffRepository "concierge/internal/domains/staff/repository"
	"concierge/shared/constant"
	"concierge/shared/failure"
	"concierge/shared/password"
	"concierge/shared/session"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// The three reasons a login is refused. Callers only ever see msgInvalidCredentials.
var (
	ErrNotFound      = errors.New("no staff account uses this email")
	ErrInactive      = errors.New("staff account is deactivated")
	ErrBadCredential = errors.New("password does not match")
)

const (
	msgInvalidCredentials = "invalid credentials or inactive account"
	msgSessionExpired     = "session expired, please sign in again"
)

type Auth interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	Logout(ctx context.Context) error
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	Me(ctx context.Context) (dto.MeResponse, error)
}

type serviceImpl struct {
	staffRepo  staffRepository.Staff
	sessions   session.Store
	jwtService jwt.JWT
	cfg        *config.Config
	otel       otel.Otel
}

func New(staffRepo staffRepository.Staff, sessions session.Store, jwtService jwt.JWT, cfg *config.Config, otel otel.Otel) Auth {
	return &serviceImpl{
		staffRepo:  staffRepo,
		sessions:   sessions,
		jwtService: jwtService,
		cfg:        cfg,
		otel:       otel,
	}
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Login")
	defer scope.End()
	defer scope.TraceIfError(err)

	email := staffDto.NormalizeEmail(req.Email)

	staff, err := s.staffRepo.GetByEmail(ctx, email)
	if err != nil {
		log.Error().Err(err).Msg("failed to get staff by email")

		return res, fmt.Errorf("failed to get staff by email: %w", err)
	}

	// lookup, then active flag, then password
	var cause error

	switch {
	case staff.ID == "":
		cause = ErrNotFound
	case !staff.IsActive:
		cause = ErrInactive
	case password.Verify(req.Password, staff.PasswordHash) != nil:
		cause = ErrBadCredential
	}

	if cause != nil {
		log.Warn().Err(cause).Str("email", email).Msg("login refused")

		return res, failure.Wrap(http.StatusUnauthorized, msgInvalidCredentials, cause)
	}

	identity := staff.Identity()
	sessionID := uuid.NewString()

	tokenPair, err := s.jwtService.GenerateTokenPair(jwt.Subject{
		UserID:    identity.ID,
		Email:     identity.Email,
		Role:      identity.Role.String(),
		SessionID: sessionID,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to generate token pair")

		return res, fmt.Errorf("failed to generate token pair: %w", err)
	}

	if err = s.sessions.Save(ctx, sessionID, identity); err != nil {
		log.Error().Err(err).Msg("failed to save session")

		return res, fmt.Errorf("failed to save session: %w", err)
	}

	res.FromTokenPair(tokenPair, identity)

	return res, nil
}

// Logout ends the current session. Tokens issued for it stop working at once.
func (s *serviceImpl) Logout(ctx context.Context) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Logout")
	defer scope.End()
	defer scope.TraceIfError(err)

	sessionID := session.IDFromContext(ctx)
	if sessionID == "" {
		return nil
	}

	if err = s.sessions.Delete(ctx, sessionID); err != nil {
		log.Error().Err(err).Msg("failed to delete session")

		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(err)

	tokenPair, claims, err := s.jwtService.RefreshTokens(req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("refresh token rejected")

		return res, failure.Wrap(http.StatusUnauthorized, "invalid refresh token", err)
	}

	_, err = s.sessions.Get(ctx, claims.SessionID)
	if errors.Is(err, session.ErrNotFound) {
		return res, failure.Wrap(http.StatusUnauthorized, msgSessionExpired, err)
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to load session")

		return res, fmt.Errorf("failed to load session: %w", err)
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) Me(ctx context.Context) (res dto.MeResponse, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Me")
	defer scope.End()
	defer scope.TraceIfError(err)

	identity := session.FromContext(ctx)
	if identity == nil {
		return res, failure.Unauthorized(msgSessionExpired)
	}

	res.FromIdentity(*identity)

	return res, nil
}
