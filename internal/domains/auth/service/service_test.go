package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"concierge/config"
	"concierge/infras/jwt"
	jwtMocks "concierge/infras/jwt/mocks"
	"concierge/infras/otel/mocks"
	"concierge/internal/domains/auth/model/dto"
	"concierge/internal/domains/auth/service"
	staffMocks "concierge/internal/domains/staff/mocks"
	staffModel "concierge/internal/domains/staff/model"
	"concierge/permissions"
	"concierge/shared/failure"
	"concierge/shared/password"
	"concierge/shared/session"
	sessionMocks "concierge/shared/session/mocks"
)

type fixture struct {
	staff    *staffMocks.MockStaff
	sessions *sessionMocks.MockStore
	jwt      *jwtMocks.MockJWT
	svc      service.Auth
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		staff:    staffMocks.NewMockStaff(ctrl),
		sessions: sessionMocks.NewMockStore(ctrl),
		jwt:      jwtMocks.NewMockJWT(ctrl),
	}

	f.svc = service.New(f.staff, f.sessions, f.jwt, &config.Config{}, mocks.NewOtel())

	return f
}

func demoStaff(t *testing.T, active bool) staffModel.Staff {
	t.Helper()

	hash, err := password.Hash("admin123")
	require.NoError(t, err)

	return staffModel.Staff{
		ID:           "staff-1",
		Email:        "john@hotel.com",
		Name:         "John Electrician",
		Role:         permissions.RoleElectrician,
		PasswordHash: hash,
		IsActive:     active,
	}
}

func TestAuthService_Login(t *testing.T) {
	t.Run("successful login stores a session", func(t *testing.T) {
		f := newFixture(t)
		staff := demoStaff(t, true)

		var savedID string

		f.staff.EXPECT().GetByEmail(gomock.Any(), "john@hotel.com").Return(staff, nil)
		f.jwt.EXPECT().GenerateTokenPair(gomock.Any()).DoAndReturn(func(subject jwt.Subject) (*jwt.TokenPair, error) {
			assert.Equal(t, staff.ID, subject.UserID)
			assert.Equal(t, "electrician", subject.Role)
			assert.NotEmpty(t, subject.SessionID)
			savedID = subject.SessionID

			return &jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900}, nil
		})
		f.sessions.EXPECT().Save(gomock.Any(), gomock.Any(), staff.Identity()).DoAndReturn(
			func(_ context.Context, sessionID string, _ session.Identity) error {
				assert.Equal(t, savedID, sessionID)
				return nil
			})

		res, err := f.svc.Login(context.Background(), dto.LoginRequest{Email: " John@Hotel.com", Password: "admin123"})

		require.NoError(t, err)
		assert.Equal(t, "access", res.AccessToken)
		assert.Equal(t, "refresh", res.RefreshToken)
		assert.Equal(t, int64(900), res.ExpiresIn)
		assert.Equal(t, staff.Identity(), res.User)
	})

	refusals := []struct {
		name     string
		staff    func(t *testing.T) staffModel.Staff
		password string
		cause    error
	}{
		{
			name:     "unknown email",
			staff:    func(*testing.T) staffModel.Staff { return staffModel.Staff{} },
			password: "admin123",
			cause:    service.ErrNotFound,
		},
		{
			name:     "deactivated account with the right password",
			staff:    func(t *testing.T) staffModel.Staff { return demoStaff(t, false) },
			password: "admin123",
			cause:    service.ErrInactive,
		},
		{
			name:     "wrong password",
			staff:    func(t *testing.T) staffModel.Staff { return demoStaff(t, true) },
			password: "letmein",
			cause:    service.ErrBadCredential,
		},
	}

	for _, tt := range refusals {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.staff.EXPECT().GetByEmail(gomock.Any(), "john@hotel.com").Return(tt.staff(t), nil)

			_, err := f.svc.Login(context.Background(), dto.LoginRequest{Email: "john@hotel.com", Password: tt.password})

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.cause)
			assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
			assert.Equal(t, "invalid credentials or inactive account", err.Error())
		})
	}

	t.Run("repository failure is not reported as bad credentials", func(t *testing.T) {
		f := newFixture(t)

		f.staff.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(staffModel.Staff{}, errors.New("connection refused"))

		_, err := f.svc.Login(context.Background(), dto.LoginRequest{Email: "john@hotel.com", Password: "admin123"})

		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})

	t.Run("session store failure aborts login", func(t *testing.T) {
		f := newFixture(t)

		f.staff.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(demoStaff(t, true), nil)
		f.jwt.EXPECT().GenerateTokenPair(gomock.Any()).Return(&jwt.TokenPair{AccessToken: "access"}, nil)
		f.sessions.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

		_, err := f.svc.Login(context.Background(), dto.LoginRequest{Email: "john@hotel.com", Password: "admin123"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save session")
	})
}

func TestAuthService_Logout(t *testing.T) {
	identity := &session.Identity{ID: "staff-1", Role: permissions.RoleWaiter, IsActive: true}

	t.Run("deletes the current session", func(t *testing.T) {
		f := newFixture(t)

		f.sessions.EXPECT().Delete(gomock.Any(), "sid-1").Return(nil)

		err := f.svc.Logout(session.WithIdentity(context.Background(), "sid-1", identity))

		require.NoError(t, err)
	})

	t.Run("without a session there is nothing to do", func(t *testing.T) {
		f := newFixture(t)

		require.NoError(t, f.svc.Logout(context.Background()))
	})

	t.Run("store failure is reported", func(t *testing.T) {
		f := newFixture(t)

		f.sessions.EXPECT().Delete(gomock.Any(), "sid-1").Return(errors.New("redis down"))

		err := f.svc.Logout(session.WithIdentity(context.Background(), "sid-1", identity))

		require.Error(t, err)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	pair := &jwt.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh", ExpiresIn: 900}
	claims := &jwt.Claims{UserID: "staff-1", SessionID: "sid-1", Type: jwt.RefreshToken}

	tests := []struct {
		name     string
		setup    func(f fixture)
		wantCode int
	}{
		{
			name: "live session gets a new pair",
			setup: func(f fixture) {
				f.jwt.EXPECT().RefreshTokens("refresh").Return(pair, claims, nil)
				f.sessions.EXPECT().Get(gomock.Any(), "sid-1").Return(&session.Identity{ID: "staff-1"}, nil)
			},
		},
		{
			name: "signed out session is refused",
			setup: func(f fixture) {
				f.jwt.EXPECT().RefreshTokens("refresh").Return(pair, claims, nil)
				f.sessions.EXPECT().Get(gomock.Any(), "sid-1").Return(nil, session.ErrNotFound)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "invalid token is refused",
			setup: func(f fixture) {
				f.jwt.EXPECT().RefreshTokens("refresh").Return(nil, nil, jwt.ErrInvalidToken)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "store failure",
			setup: func(f fixture) {
				f.jwt.EXPECT().RefreshTokens("refresh").Return(pair, claims, nil)
				f.sessions.EXPECT().Get(gomock.Any(), "sid-1").Return(nil, errors.New("redis down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			res, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "new-access", res.AccessToken)
			assert.Equal(t, "new-refresh", res.RefreshToken)
		})
	}
}

func TestAuthService_Me(t *testing.T) {
	f := newFixture(t)

	identity := &session.Identity{ID: "admin-1", Role: permissions.RoleAdmin, IsActive: true}

	res, err := f.svc.Me(session.WithIdentity(context.Background(), "sid", identity))

	require.NoError(t, err)
	assert.Equal(t, "admin-1", res.ID)
	assert.Contains(t, res.Permissions, permissions.ManageStaff)

	_, err = f.svc.Me(context.Background())

	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
}
