// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/m2ichu/wilksCalculatorApp/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// athleteIDContextKey はリクエストコンテキストに選手IDを格納するためのキー。
var athleteIDContextKey = contextKey("athlete_id")

// TokenVerifier はベアラートークンの検証に必要なインターフェース。
// auth.TokenManagerの部分集合として定義する。
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// NewAuthMiddleware はAuthorizationヘッダーのベアラートークンを検証し、
// 認証済み選手IDをリクエストコンテキストに注入するミドルウェアを返す。
// ヘッダー欠落・形式不正・署名不正・期限切れはすべて401を返す。
func NewAuthMiddleware(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			athleteID, err := verifier.Verify(token)
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			ctx := context.WithValue(r.Context(), athleteIDContextKey, athleteID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken はAuthorizationヘッダーからベアラートークンを取り出す。
// スキーム名の大文字小文字は区別しない。
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// AthleteIDFromContext はリクエストコンテキストから選手IDを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func AthleteIDFromContext(ctx context.Context) (string, error) {
	athleteID, ok := ctx.Value(athleteIDContextKey).(string)
	if !ok || athleteID == "" {
		return "", fmt.Errorf("athlete ID not found in context")
	}
	return athleteID, nil
}

// ContextWithAthleteID はコンテキストに選手IDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithAthleteID(ctx context.Context, athleteID string) context.Context {
	return context.WithValue(ctx, athleteIDContextKey, athleteID)
}
