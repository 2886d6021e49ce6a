// Package admin は管理者向けの承認ワークフローとリーダーボード取得を提供する。
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/m2ichu/wilksCalculatorApp/internal/model"
	"github.com/m2ichu/wilksCalculatorApp/internal/ranking"
	"github.com/m2ichu/wilksCalculatorApp/internal/repository"
)

// Service は管理者操作のサービス層。
type Service struct {
	repo repository.AthleteRepository
	now  func() time.Time
}

// NewService はServiceを生成する。
func NewService(repo repository.AthleteRepository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// AuthorizeAdmin は呼び出し元の選手が管理者であることを確認する。
// 管理者フラグはキャッシュせず、リクエストごとに永続化層を参照する。
// フラグ剥奪が次のリクエストから即座に効くようにするため。
func (s *Service) AuthorizeAdmin(ctx context.Context, athleteID string) error {
	athlete, err := s.repo.FindByID(ctx, athleteID)
	if err != nil {
		return fmt.Errorf("failed to find athlete: %w", err)
	}
	if athlete == nil {
		return model.NewUnauthorizedError()
	}
	if !athlete.IsAdmin {
		return model.NewForbiddenError()
	}
	return nil
}

// ListUnconfirmed は未承認の選手一覧を登録順で返す。
// 1件も存在しない場合はEmptyListエラーを返す。
func (s *Service) ListUnconfirmed(ctx context.Context) ([]model.AthleteSummary, error) {
	return s.listByConfirmed(ctx, false, "未承認のユーザーはいません")
}

// ListConfirmed は承認済みの選手一覧を登録順で返す。
// 1件も存在しない場合はEmptyListエラーを返す。
func (s *Service) ListConfirmed(ctx context.Context) ([]model.AthleteSummary, error) {
	return s.listByConfirmed(ctx, true, "承認済みのユーザーはいません")
}

func (s *Service) listByConfirmed(ctx context.Context, confirmed bool, emptyMessage string) ([]model.AthleteSummary, error) {
	athletes, err := s.repo.ListByConfirmed(ctx, confirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to list athletes: %w", err)
	}
	if len(athletes) == 0 {
		return nil, model.NewEmptyListError(emptyMessage)
	}

	summaries := make([]model.AthleteSummary, 0, len(athletes))
	for _, a := range athletes {
		summaries = append(summaries, a.Summary())
	}
	return summaries, nil
}

// Confirm は選手を承認し、承認日時を現在時刻で記録する。
// すでに承認済みの選手に対しても承認日時を現在時刻で上書きする（冪等）。
// 存在しない選手IDはNotFoundエラーとなる。
func (s *Service) Confirm(ctx context.Context, athleteID string) (*model.AthleteSummary, error) {
	athlete, err := s.repo.Confirm(ctx, athleteID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to confirm athlete: %w", err)
	}
	if athlete == nil {
		return nil, model.NewAthleteNotFoundError(athleteID)
	}

	slog.Info("athlete confirmed",
		slog.String("athlete_id", athlete.ID),
		slog.String("username", athlete.Username),
	)

	summary := athlete.Summary()
	return &summary, nil
}

// DeleteAthlete は選手と結果履歴を削除する。
// 存在しない選手IDはNotFoundエラーとなる。
func (s *Service) DeleteAthlete(ctx context.Context, athleteID string) error {
	athlete, err := s.repo.FindByID(ctx, athleteID)
	if err != nil {
		return fmt.Errorf("failed to find athlete: %w", err)
	}
	if athlete == nil {
		return model.NewAthleteNotFoundError(athleteID)
	}

	if err := s.repo.DeleteByID(ctx, athleteID); err != nil {
		return fmt.Errorf("failed to delete athlete: %w", err)
	}

	slog.Info("athlete deleted",
		slog.String("athlete_id", athleteID),
	)

	return nil
}

// BestResults は承認済み選手のリーダーボードを返す。
// 各選手につきスコア最大の記録を1件抽出し、指定フィールドでソートする。
// ソートフィールドが空または列挙外の場合は提出日時にフォールバックする。
// 承認済み選手が1人も存在しない場合はEmptyListエラーを返す。
func (s *Service) BestResults(ctx context.Context, sortBy, sortOrder string) ([]ranking.Entry, error) {
	athletes, err := s.repo.ListByConfirmed(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list athletes: %w", err)
	}
	if len(athletes) == 0 {
		return nil, model.NewEmptyListError("承認済みのユーザーはいません")
	}

	values := make([]model.Athlete, 0, len(athletes))
	for _, a := range athletes {
		values = append(values, *a)
	}

	entries := ranking.BestResultPerAthlete(values)
	field := ranking.ParseSortFieldOrDefault(sortBy, ranking.SortByRecordedAt)
	direction := ranking.ParseSortDirection(sortOrder)

	return ranking.SortLeaderboard(entries, field, direction), nil
}
