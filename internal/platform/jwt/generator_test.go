package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewGenerator は各種設定でGeneratorが正しく生成されることを検証します。
func TestNewGenerator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		secret     string
		expiration time.Duration
	}{
		{"standard config", "my-secret-key", time.Hour},
		{"long expiration", "secret", 24 * time.Hour * 30},
		{"short expiration", "s", time.Minute},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := NewGenerator(tt.secret, tt.expiration)
			require.NotNil(t, gen)
			assert.Equal(t, tt.secret, string(gen.secret))
			assert.Equal(t, tt.expiration, gen.expiration)
		})
	}
}

// TestGenerator_GenerateToken は生成されたJWTが検証可能で正しいクレームを含むことを検証します。
func TestGenerator_GenerateToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		subject    string
		expiration time.Duration
	}{
		{"cli client", "forecastctl", time.Hour},
		{"dashboard", "dashboard@example.com", time.Hour},
		{"long lived", "batch", 24 * time.Hour},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokenStr, err := NewGenerator("test-secret", tt.expiration).GenerateToken(tt.subject)
			require.NoError(t, err)
			require.NotEmpty(t, tokenStr)

			claims := &jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(tok *jwt.Token) (interface{}, error) {
				_, ok := tok.Method.(*jwt.SigningMethodHMAC)
				assert.True(t, ok, "unexpected signing method: %v", tok.Header["alg"])
				return []byte("test-secret"), nil
			})
			require.NoError(t, err)
			assert.True(t, token.Valid)
			assert.Equal(t, tt.subject, claims.Subject)
			require.NotNil(t, claims.ExpiresAt)
			require.NotNil(t, claims.IssuedAt)
		})
	}
}

// TestGenerator_GenerateToken_Expiration は exp/iat が固定時刻から計算されることを検証します。
func TestGenerator_GenerateToken_Expiration(t *testing.T) {
	t.Parallel()

	fixed := time.Now().Truncate(time.Second)
	gen := NewGenerator("test-secret", 2*time.Hour)
	gen.now = func() time.Time { return fixed }

	tokenStr, err := gen.GenerateToken("client")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)

	assert.Equal(t, fixed.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixed.Add(2*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestGenerator_GenerateToken_EmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewGenerator("", time.Hour).GenerateToken("client")
	assert.ErrorIs(t, err, ErrEmptySecret)
}

// TestGenerator_GenerateToken_DifferentSubjects は異なる subject に対して異なるトークンが生成されることを検証します。
func TestGenerator_GenerateToken_DifferentSubjects(t *testing.T) {
	t.Parallel()

	gen := NewGenerator("test-secret", time.Hour)

	token1, err := gen.GenerateToken("client-a")
	require.NoError(t, err)
	token2, err := gen.GenerateToken("client-b")
	require.NoError(t, err)

	assert.NotEqual(t, token1, token2)
}
