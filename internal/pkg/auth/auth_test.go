package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "alumnihub-test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestService()
	user := &models.User{ID: 7, Email: "jane@example.com", Role: models.RoleAlumni, IsApproved: true}

	pair, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Len(t, pair.RefreshToken, 36)
	assert.Equal(t, int64(3600), pair.ExpiresIn)
	assert.Equal(t, int64(86400), pair.RefreshExpiresIn)

	claims, err := svc.ValidateAndExtractClaims(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "alumni", claims.Role)
	assert.True(t, claims.Approved)
	assert.False(t, claims.IsAdmin())
	assert.Equal(t, "alumnihub-test", claims.Issuer)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := newTestService()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	pair, err := svc.GenerateTokenPair(&models.User{ID: 1, Email: "a@b.co", Role: models.RoleAdmin})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	pair, err := newTestService().GenerateTokenPair(&models.User{ID: 1, Email: "a@b.co"})
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour})
	_, err = other.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{UserID: 1, Email: "a@b.co", Role: "admin", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestService().ValidateToken(unsigned)
	assert.Error(t, err)
}

func TestValidateAndExtractClaimsEmpty(t *testing.T) {
	_, err := newTestService().ValidateAndExtractClaims("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", tok)

	tok, err = ExtractBearerToken("abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", tok)

	_, err = ExtractBearerToken("  ")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestHashAndCheckPassword(t *testing.T) {
	BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { BcryptCost = 12 })

	hash, err := HashPassword("s3cretPass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretPass", hash)
	assert.True(t, CheckPassword(hash, "s3cretPass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
