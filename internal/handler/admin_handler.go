package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/m2ichu/wilksCalculatorApp/internal/model"
	"github.com/m2ichu/wilksCalculatorApp/internal/ranking"
)

// AdminServiceInterface は管理者ハンドラーが必要とするサービスインターフェース。
type AdminServiceInterface interface {
	// ListUnconfirmed は未承認の選手一覧を返す。
	ListUnconfirmed(ctx context.Context) ([]model.AthleteSummary, error)
	// ListConfirmed は承認済みの選手一覧を返す。
	ListConfirmed(ctx context.Context) ([]model.AthleteSummary, error)
	// Confirm は選手を承認する。
	Confirm(ctx context.Context, athleteID string) (*model.AthleteSummary, error)
	// DeleteAthlete は選手と結果履歴を削除する。
	DeleteAthlete(ctx context.Context, athleteID string) error
	// BestResults は承認済み選手のリーダーボードを返す。
	BestResults(ctx context.Context, sortBy, sortOrder string) ([]ranking.Entry, error)
}

// AdminHandler は管理者向けエンドポイントのHTTPハンドラー。
type AdminHandler struct {
	service AdminServiceInterface
}

// NewAdminHandler はAdminHandlerを生成する。
func NewAdminHandler(service AdminServiceInterface) *AdminHandler {
	return &AdminHandler{
		service: service,
	}
}

// confirmUserRequest は選手承認リクエストのボディ。
type confirmUserRequest struct {
	ID string `json:"id"`
}

// leaderboardEntryResponse はリーダーボード1行のAPIレスポンス。
// bestResultは記録のない選手でnullになる。
type leaderboardEntryResponse struct {
	Athlete    athleteResponse `json:"athlete"`
	BestResult *resultResponse `json:"bestResult"`
}

// ListUnconfirmed は未承認の選手一覧を返す。
// GET /admin/unconfirmed
func (h *AdminHandler) ListUnconfirmed(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListUnconfirmed(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"athletes": toAthleteResponses(summaries),
	})
}

// ListConfirmed は承認済みの選手一覧を返す。
// GET /admin/confirmedUsers
func (h *AdminHandler) ListConfirmed(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListConfirmed(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"athletes": toAthleteResponses(summaries),
	})
}

// ConfirmUser は選手の承認を処理する。
// PUT /admin/confirmUser
func (h *AdminHandler) ConfirmUser(w http.ResponseWriter, r *http.Request) {
	var req confirmUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}
	if req.ID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("idは必須です"))
		return
	}

	summary, err := h.service.Confirm(r.Context(), req.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "ユーザーを承認しました。",
		"athlete": toAthleteResponse(*summary),
	})
}

// DeleteUser は選手の削除を処理する。
// DELETE /admin/deleteUser?id=
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	athleteID := r.URL.Query().Get("id")
	if athleteID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("idは必須です"))
		return
	}

	if err := h.service.DeleteAthlete(r.Context(), athleteID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "ユーザーを削除しました。",
	})
}

// BestResults はリーダーボードの取得を処理する。
// GET /admin/bestResults?sortBy=&sortOrder=
func (h *AdminHandler) BestResults(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	entries, err := h.service.BestResults(r.Context(), query.Get("sortBy"), query.Get("sortOrder"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]leaderboardEntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = leaderboardEntryResponse{
			Athlete: toAthleteResponse(entry.Athlete),
		}
		if entry.Best != nil {
			res := resultResponse{
				BodyweightKg: entry.Best.Bodyweight,
				TotalLiftKg:  entry.Best.TotalLift,
				Score:        entry.Best.Score,
				RecordedAt:   entry.Best.RecordedAt,
			}
			responses[i].BestResult = &res
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"leaderboard": responses,
	})
}

// toAthleteResponses はドメインのサマリーリストをレスポンス型に変換する。
func toAthleteResponses(summaries []model.AthleteSummary) []athleteResponse {
	responses := make([]athleteResponse, len(summaries))
	for i, s := range summaries {
		responses[i] = toAthleteResponse(s)
	}
	return responses
}
