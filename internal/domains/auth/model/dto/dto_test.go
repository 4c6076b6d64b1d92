package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"concierge/infras/jwt"
	"concierge/internal/domains/auth/model/dto"
	"concierge/permissions"
	"concierge/shared/session"
)

func TestLoginResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		ExpiresIn:    900,
	}
	identity := session.Identity{ID: "staff-1", Email: "lisa@hotel.com", Role: permissions.RoleHousekeeping, IsActive: true}

	var response dto.LoginResponse
	response.FromTokenPair(tokenPair, identity)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
	assert.Equal(t, int64(900), response.ExpiresIn)
	assert.Equal(t, identity, response.User)
}

func TestRefreshTokenResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "new-access-token",
		RefreshToken: "new-refresh-token",
	}

	var response dto.RefreshTokenResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
}

func TestMeResponse_FromIdentity(t *testing.T) {
	var response dto.MeResponse
	response.FromIdentity(session.Identity{ID: "staff-1", Role: permissions.RoleWaiter})

	assert.Equal(t, "staff-1", response.ID)
	assert.Equal(t, []permissions.Permission{permissions.ViewAssignedRequests, permissions.UpdateRequests}, response.Permissions)

	var unknown dto.MeResponse
	unknown.FromIdentity(session.Identity{ID: "x", Role: "janitor"})

	assert.Empty(t, unknown.Permissions)
}
