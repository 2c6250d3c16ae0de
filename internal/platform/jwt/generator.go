// Package jwtmw はログイン用トークンの発行と、保護ルート用の Gin ミドルウェアを提供します。
package jwtmw

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// EnvKeyJWTSecret は署名鍵を読み込む環境変数名です。
	EnvKeyJWTSecret = "JWT_SECRET"

	// DefaultExpiration はトークンの有効期間です。
	DefaultExpiration = 24 * time.Hour
)

// SecretFromEnv は JWT_SECRET を返します。未設定なら空文字です。
func SecretFromEnv() string {
	return os.Getenv(EnvKeyJWTSecret)
}

// Generator は HS256 で署名したトークンを発行します。
type Generator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator は新しい Generator を作成します。
func NewGenerator(secret string, expiration time.Duration) *Generator {
	return &Generator{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken は sub, email, iat, exp を含むトークンを発行します。
func (g *Generator) GenerateToken(userID uint, email string) (string, error) {
	now := g.now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"exp":   now.Add(g.expiration).Unix(),
		"iat":   now.Unix(),
		"email": email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
