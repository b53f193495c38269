package authentication

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phuong808/Pathfinity/config"
	"github.com/phuong808/Pathfinity/models/users"
)

func TestInitWiresSettings(t *testing.T) {
	Init(config.Settings{
		JWTSecret:          "token-test-secret",
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		GoogleRedirectURL:  "http://localhost:8080/callback/google",
	})

	assert.Equal(t, []byte("token-test-secret"), jwtKey)
	assert.Equal(t, "client-id", googleOauthConfig.ClientID)
	assert.Equal(t, "client-secret", googleOauthConfig.ClientSecret)
	assert.Equal(t, "http://localhost:8080/callback/google", googleOauthConfig.RedirectURL)
}

func TestTokenRoundTrip(t *testing.T) {
	Init(config.Settings{JWTSecret: "token-test-secret"})

	token, err := issueToken(&users.User{ID: 7, Email: "nani@hawaii.edu", Role: "student"})
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/profile", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	claims, err := ParseBearerClaims(r)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "nani@hawaii.edu", claims.Email)
	assert.Equal(t, "student", claims.Role)
}

func TestParseBearerClaimsRejectsBadToken(t *testing.T) {
	Init(config.Settings{JWTSecret: "token-test-secret"})

	r := httptest.NewRequest("GET", "/profile", nil)
	_, err := ParseBearerClaims(r)
	assert.Error(t, err)

	r.Header.Set("Authorization", "Bearer not-a-token")
	_, err = ParseBearerClaims(r)
	assert.Error(t, err)
}
