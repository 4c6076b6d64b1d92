package dto

import (
	"concierge/infras/jwt"
	"concierge/permissions"
	"concierge/shared/session"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	ExpiresIn    int64            `json:"expires_in"`
	User         session.Identity `json:"user"`
}

func (l *LoginResponse) FromTokenPair(tokenPair *jwt.TokenPair, identity session.Identity) {
	l.AccessToken = tokenPair.AccessToken
	l.RefreshToken = tokenPair.RefreshToken
	l.ExpiresIn = tokenPair.ExpiresIn
	l.User = identity
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (r *RefreshTokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	r.AccessToken = tokenPair.AccessToken
	r.RefreshToken = tokenPair.RefreshToken
	r.ExpiresIn = tokenPair.ExpiresIn
}

// MeResponse is the signed-in identity together with what its role grants.
type MeResponse struct {
	session.Identity
	Permissions []permissions.Permission `json:"permissions"`
}

func (m *MeResponse) FromIdentity(identity session.Identity) {
	m.Identity = identity
	m.Permissions = identity.Permissions()
}
