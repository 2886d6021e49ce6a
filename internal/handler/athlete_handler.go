// Package handler はREST APIのHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/m2ichu/wilksCalculatorApp/internal/auth"
	"github.com/m2ichu/wilksCalculatorApp/internal/middleware"
	"github.com/m2ichu/wilksCalculatorApp/internal/model"
	"github.com/m2ichu/wilksCalculatorApp/internal/scoring"
)

// AuthServiceInterface は選手ハンドラーが必要とする認証サービスインターフェース。
type AuthServiceInterface interface {
	// Register は選手を未承認状態で新規登録する。
	Register(ctx context.Context, in auth.RegisterInput) (*model.AthleteSummary, error)
	// Login は認証情報を検証し、ベアラートークンと選手サマリーを返す。
	Login(ctx context.Context, emailOrUsername, password string) (string, *model.AthleteSummary, error)
}

// ResultServiceInterface は選手ハンドラーが必要とする結果サービスインターフェース。
type ResultServiceInterface interface {
	// Submit は結果を1件追記し、更新後の履歴を返す。
	Submit(ctx context.Context, athleteID string, bodyweightKg, totalLiftKg float64, category scoring.Category) ([]model.Result, error)
	// GetResults は結果履歴を指定フィールドでソートして返す。
	GetResults(ctx context.Context, athleteID, sortBy, sortOrder string) ([]model.Result, error)
}

// MetricsRecorder は選手ハンドラーが記録するメトリクスのインターフェース。
// metrics.Collectorの部分集合として定義する。
type MetricsRecorder interface {
	RecordRegistration()
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordResultSubmitted(score float64)
}

// noopMetrics はメトリクス未設定時のフォールバック。
type noopMetrics struct{}

func (noopMetrics) RecordRegistration()                 {}
func (noopMetrics) RecordLoginSuccess()                 {}
func (noopMetrics) RecordLoginFailure()                 {}
func (noopMetrics) RecordResultSubmitted(score float64) {}

// AthleteHandler は選手向けエンドポイントのHTTPハンドラー。
type AthleteHandler struct {
	authService   AuthServiceInterface
	resultService ResultServiceInterface
	metrics       MetricsRecorder
}

// NewAthleteHandler はAthleteHandlerを生成する。metricsはnil可。
func NewAthleteHandler(authService AuthServiceInterface, resultService ResultServiceInterface, metrics MetricsRecorder) *AthleteHandler {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &AthleteHandler{
		authService:   authService,
		resultService: resultService,
		metrics:       metrics,
	}
}

// registerRequest は選手登録リクエストのボディ。
type registerRequest struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Weight    float64 `json:"weight"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

// addResultRequest は結果提出リクエストのボディ。
// athleteIdを省略した場合はトークンの選手自身に記録する。
// scoreフィールドは受理するが値は無視し、サーバー側で再計算する。
type addResultRequest struct {
	AthleteID string  `json:"athleteId"`
	Weight    float64 `json:"weight"`
	TotalLift float64 `json:"totalLift"`
	Score     float64 `json:"score"`
	Category  string  `json:"category"`
}

// athleteResponse は選手サマリーのAPIレスポンス。
type athleteResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Bodyweight  float64    `json:"bodyweight"`
	IsAdmin     bool       `json:"isAdmin"`
	IsConfirmed bool       `json:"isConfirmed"`
	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// resultResponse は1件の記録のAPIレスポンス。
// フィールド名はソートフィールドの列挙と一致させる。
type resultResponse struct {
	BodyweightKg float64   `json:"bodyweightKg"`
	TotalLiftKg  float64   `json:"totalLiftKg"`
	Score        float64   `json:"score"`
	RecordedAt   time.Time `json:"recordedAt"`
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// Register は選手登録を処理する。
// POST /users/register
func (h *AthleteHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	summary, err := h.authService.Register(r.Context(), auth.RegisterInput{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		Bodyweight: req.Weight,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordRegistration()

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "登録が完了しました。管理者の承認をお待ちください。",
		"athlete": toAthleteResponse(*summary),
	})
}

// Login はログインを処理する。
// POST /users/login
func (h *AthleteHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	token, summary, err := h.authService.Login(r.Context(), req.EmailOrUsername, req.Password)
	if err != nil {
		h.metrics.RecordLoginFailure()
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordLoginSuccess()

	writeJSON(w, http.StatusOK, map[string]any{
		"token":   token,
		"athlete": toAthleteResponse(*summary),
	})
}

// Logout はログアウトを処理する。
// トークンはサーバー側に状態を持たないため、破棄はクライアントに委ねる。
// POST /users/logout
func (h *AthleteHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.AthleteIDFromContext(r.Context()); err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "ログアウトしました。",
	})
}

// AddResult は結果の提出を処理する。
// POST /users/addResult
func (h *AthleteHandler) AddResult(w http.ResponseWriter, r *http.Request) {
	authedID, err := middleware.AthleteIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req addResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	athleteID := req.AthleteID
	if athleteID == "" {
		athleteID = authedID
	}

	results, err := h.resultService.Submit(r.Context(), athleteID, req.Weight, req.TotalLift, scoring.ParseCategory(req.Category))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if len(results) > 0 {
		h.metrics.RecordResultSubmitted(results[len(results)-1].Score)
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"results": toResultResponses(results),
	})
}

// GetResults は結果履歴の取得を処理する。
// GET /users/getResults?athleteId=&sortBy=&sortOrder=
func (h *AthleteHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	authedID, err := middleware.AthleteIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	query := r.URL.Query()
	athleteID := query.Get("athleteId")
	if athleteID == "" {
		athleteID = authedID
	}
	sortBy := query.Get("sortBy")
	if sortBy == "" {
		sortBy = "recordedAt"
	}

	results, err := h.resultService.GetResults(r.Context(), athleteID, sortBy, query.Get("sortOrder"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results": toResultResponses(results),
	})
}

// toAthleteResponse はドメインのサマリーをレスポンス型に変換する。
func toAthleteResponse(s model.AthleteSummary) athleteResponse {
	return athleteResponse{
		ID:          s.ID,
		Username:    s.Username,
		Email:       s.Email,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Bodyweight:  s.Bodyweight,
		IsAdmin:     s.IsAdmin,
		IsConfirmed: s.IsConfirmed,
		ConfirmedAt: s.ConfirmedAt,
		CreatedAt:   s.CreatedAt,
	}
}

// toResultResponses はドメインの記録リストをレスポンス型に変換する。
func toResultResponses(results []model.Result) []resultResponse {
	responses := make([]resultResponse, len(results))
	for i, res := range results {
		responses[i] = resultResponse{
			BodyweightKg: res.Bodyweight,
			TotalLiftKg:  res.TotalLift,
			Score:        res.Score,
			RecordedAt:   res.RecordedAt,
		}
	}
	return responses
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSON(w, statusCode, apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeAthleteNotFound, model.ErrCodeEmptyList:
		return http.StatusNotFound
	case model.ErrCodeDuplicateUsername, model.ErrCodeDuplicateEmail,
		model.ErrCodeInvalidCredentials, model.ErrCodeInvalidSortField,
		model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case model.ErrCodeNotConfirmed, model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
