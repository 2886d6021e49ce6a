package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/m2ichu/wilksCalculatorApp/internal/model"
)

// AdminAuthorizer は管理者権限の確認に必要なインターフェース。
// admin.Serviceの部分集合として定義する。
type AdminAuthorizer interface {
	AuthorizeAdmin(ctx context.Context, athleteID string) error
}

// NewAdminMiddleware は認証済み選手が管理者であることを確認するミドルウェアを返す。
// 認証ミドルウェアの内側に配置すること。管理者フラグはリクエストごとに
// 永続化層から読み直すため、剥奪は次のリクエストから即座に効く。
func NewAdminMiddleware(authorizer AdminAuthorizer) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			athleteID, err := AthleteIDFromContext(r.Context())
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			if err := authorizer.AuthorizeAdmin(r.Context(), athleteID); err != nil {
				var apiErr *model.APIError
				if errors.As(err, &apiErr) {
					status := http.StatusForbidden
					if apiErr.Code == model.ErrCodeUnauthorized {
						status = http.StatusUnauthorized
					}
					WriteErrorResponse(w, status, apiErr)
					return
				}
				slog.Error("failed to authorize admin",
					slog.String("athlete_id", athleteID),
					slog.String("error", err.Error()),
				)
				WriteInternalServerError(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
