package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"

	apperrors "acquisition/internal/errors"
)

const testSecret = "test-secret-which-is-long-enough-123456"

func TestJWTService_SignAndVerify(t *testing.T) {
	svc := NewJWTService(testSecret)

	token, err := svc.Sign(42, "Ann Lee", "ann@ex.com", "user")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "Ann Lee", claims.Name)
	assert.Equal(t, "ann@ex.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.NotEmpty(t, claims.ID)

	// Embedded expiry agrees with the configured token lifetime.
	assert.WithinDuration(t, time.Now().Add(TokenExpiry), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_VerifyRejectsTampering(t *testing.T) {
	svc := NewJWTService(testSecret)

	token, err := svc.Sign(1, "A B", "a@b.com", "admin")
	assert.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
		{name: "flipped payload byte", token: token[:20] + "x" + token[21:]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.Verify(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
		})
	}
}

func TestJWTService_VerifyRejectsWrongKey(t *testing.T) {
	token, err := NewJWTService(testSecret).Sign(1, "A B", "a@b.com", "user")
	assert.NoError(t, err)

	claims, err := NewJWTService("another-secret-which-is-also-long-enough").Verify(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_VerifyRejectsExpired(t *testing.T) {
	svc := NewJWTService(testSecret)

	expired := &Claims{
		UserID: 7,
		Email:  "old@ex.com",
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-TokenExpiry)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString(svc.secret)
	assert.NoError(t, err)

	claims, err := svc.Verify(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_VerifyRejectsWrongMethod(t *testing.T) {
	svc := NewJWTService(testSecret)

	// alg "none" tokens must never pass.
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	claims, err := svc.Verify(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
