// Package jwtmw はAPIクライアント向けJWTの発行と検証ミドルウェアを提供します。
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptySecret は署名用シークレットが未設定の場合に返されます。
var ErrEmptySecret = errors.New("jwt secret is empty")

// Generator はJWTトークン生成のインターフェースです。
type Generator interface {
	// GenerateToken は subject（APIクライアント名）の署名済みトークンを生成します。
	GenerateToken(subject string) (string, error)
}

// TokenGenerator は HS256 で署名する Generator 実装です。
type TokenGenerator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

var _ Generator = (*TokenGenerator)(nil)

// NewGenerator は指定したシークレットと有効期間でGeneratorを生成します。
func NewGenerator(secret string, expiration time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken は標準クレーム（sub, iat, exp）を持つ署名済みトークンを生成します。
func (g *TokenGenerator) GenerateToken(subject string) (string, error) {
	if len(g.secret) == 0 {
		return "", ErrEmptySecret
	}

	now := g.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(g.expiration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
