package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/m2ichu/wilksCalculatorApp/internal/middleware"
)

// Pinger はヘルスチェックで使用するDB疎通確認のインターフェース。
// sql.DBの部分集合として定義する。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	AdminAuthorizer   middleware.AdminAuthorizer
	CORSAllowedOrigin string
	Logger            *slog.Logger

	// サービス
	AuthService   AuthServiceInterface
	ResultService ResultServiceInterface
	AdminService  AdminServiceInterface

	// 観測
	Metrics        MetricsRecorder
	StatusRecorder middleware.HTTPStatusRecorder
	MetricsHandler http.Handler

	// ヘルスチェック
	DB Pinger
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Metrics → Logging
//
// 認証ミドルウェアはトークン必須のルートグループにのみ適用し、
// 管理者ルートではさらに管理者チェックを重ねる。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.StatusRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.StatusRecorder))
	}
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}

	athleteHandler := NewAthleteHandler(deps.AuthService, deps.ResultService, deps.Metrics)
	adminHandler := NewAdminHandler(deps.AdminService)

	// --- 認証不要のルート ---

	r.Post("/users/register", athleteHandler.Register)
	r.Post("/users/login", athleteHandler.Login)
	r.Get("/health", healthHandler(deps.DB))

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// --- トークンが必要なルート ---

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))

		r.Post("/users/addResult", athleteHandler.AddResult)
		r.Get("/users/getResults", athleteHandler.GetResults)
		r.Post("/users/logout", athleteHandler.Logout)

		// --- 管理者専用ルート ---

		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAdminMiddleware(deps.AdminAuthorizer))

			r.Route("/admin", func(r chi.Router) {
				r.Get("/unconfirmed", adminHandler.ListUnconfirmed)
				r.Get("/confirmedUsers", adminHandler.ListConfirmed)
				r.Put("/confirmUser", adminHandler.ConfirmUser)
				r.Delete("/deleteUser", adminHandler.DeleteUser)
				r.Get("/bestResults", adminHandler.BestResults)
			})
		})
	})

	return r
}

// healthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeJSON(w, http.StatusServiceUnavailable, map[string]any{
					"status": "unhealthy",
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
		})
	}
}
