package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/coursedesk/internal/app/models"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
)

func newService(accessTTL time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessTTL,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "coursedesk-test",
	})
}

var admin = &models.User{ID: "u-1", Email: "admin@example.com"}

func TestGenerateAndValidate(t *testing.T) {
	svc := newService(time.Minute)

	pair, err := svc.GenerateTokenPair(admin)
	require.NoError(t, err)
	assert.Equal(t, 60, pair.ExpiresIn)
	assert.Equal(t, 3600, pair.RefreshTokenExpiresIn)

	claims, err := svc.ValidateToken(pair.AccessToken, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)

	_, err = svc.ValidateToken(pair.RefreshToken, TokenTypeRefresh)
	require.NoError(t, err)
}

func TestValidateToken_RejectsWrongType(t *testing.T) {
	svc := newService(time.Minute)
	pair, err := svc.GenerateTokenPair(admin)
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.RefreshToken, TokenTypeAccess)
	assert.True(t, errors.Is(err, apperrors.ErrTokenInvalid))
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newService(-time.Minute)
	pair, err := svc.GenerateTokenPair(admin)
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken, TokenTypeAccess)
	assert.True(t, errors.Is(err, apperrors.ErrTokenExpired))
}

func TestValidateToken_ForeignSecret(t *testing.T) {
	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Minute, RefreshTokenExp: time.Minute, TokenIssuer: "coursedesk-test"})
	pair, err := other.GenerateTokenPair(admin)
	require.NoError(t, err)

	_, err = newService(time.Minute).ValidateToken(pair.AccessToken, TokenTypeAccess)
	assert.True(t, errors.Is(err, apperrors.ErrTokenInvalid))
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	for _, header := range []string{"", "abc.def.ghi", "Basic xyz", "Bearer"} {
		_, err := ExtractBearerToken(header)
		assert.Error(t, err, header)
	}
}

func TestPasswordHashing(t *testing.T) {
	BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { BcryptCost = 12 })

	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
