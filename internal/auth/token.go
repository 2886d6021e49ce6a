package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenManager はベアラートークン（JWT, HS256）の発行と検証を行う。
// トークンは選手IDのみを運ぶケイパビリティであり、サーバー側に
// セッション状態は持たない（失効リストなし）。
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager はTokenManagerを生成する。
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// tokenClaims はトークンに格納するクレーム。
type tokenClaims struct {
	AthleteID string `json:"athlete_id"`
	jwt.RegisteredClaims
}

// Issue は指定選手ID向けのトークンを発行する。
func (m *TokenManager) Issue(athleteID string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		AthleteID: athleteID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify はトークンを検証し、選手IDを返す。
// 署名不正・期限切れ・アルゴリズム不一致はすべてエラーとなる。
func (m *TokenManager) Verify(tokenString string) (string, error) {
	claims := &tokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid || claims.AthleteID == "" {
		return "", fmt.Errorf("invalid token")
	}

	return claims.AthleteID, nil
}
