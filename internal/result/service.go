// Package result は結果の提出と履歴取得のドメインロジックを提供する。
package result

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/m2ichu/wilksCalculatorApp/internal/model"
	"github.com/m2ichu/wilksCalculatorApp/internal/ranking"
	"github.com/m2ichu/wilksCalculatorApp/internal/repository"
	"github.com/m2ichu/wilksCalculatorApp/internal/scoring"
)

// Service は結果管理のサービス層。
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

// Submit は選手の結果履歴に1件追記し、更新後の履歴を返す。
//
// スコアはクライアントの申告値を信用せず、提出された体重・トータル・
// カテゴリからサーバー側で再計算して保存する。保存されたスコアは確定値
// であり、以後プロフィール体重が変わっても再計算されない。
func (s *Service) Submit(ctx context.Context, athleteID string, bodyweightKg, totalLiftKg float64, category scoring.Category) ([]model.Result, error) {
	if !(bodyweightKg > 0) {
		return nil, model.NewInvalidRequestError("体重は正の数で指定してください")
	}
	if !(totalLiftKg > 0) {
		return nil, model.NewInvalidRequestError("トータル挙上重量は正の数で指定してください")
	}

	athlete, err := s.repo.FindByID(ctx, athleteID)
	if err != nil {
		return nil, fmt.Errorf("failed to find athlete: %w", err)
	}
	if athlete == nil {
		return nil, model.NewAthleteNotFoundError(athleteID)
	}

	result := model.Result{
		Bodyweight: bodyweightKg,
		TotalLift:  totalLiftKg,
		Score:      scoring.Score(bodyweightKg, totalLiftKg, category),
		RecordedAt: s.now(),
	}

	results, err := s.repo.AppendResult(ctx, athleteID, result)
	if err != nil {
		return nil, fmt.Errorf("failed to append result: %w", err)
	}

	slog.Info("result submitted",
		slog.String("athlete_id", athleteID),
		slog.Float64("score", result.Score),
	)

	return results, nil
}

// GetResults は選手の結果履歴を指定フィールドでソートして返す。
// ソートは読み出し時の射影であり、保存された提出順は変更されない。
// 列挙外のソートフィールドはInvalidSortFieldエラーとなる。
func (s *Service) GetResults(ctx context.Context, athleteID, sortBy string, sortOrder string) ([]model.Result, error) {
	athlete, err := s.repo.FindByID(ctx, athleteID)
	if err != nil {
		return nil, fmt.Errorf("failed to find athlete: %w", err)
	}
	if athlete == nil {
		return nil, model.NewAthleteNotFoundError(athleteID)
	}

	field, err := ranking.ParseSortField(sortBy)
	if err != nil {
		return nil, err
	}
	direction := ranking.ParseSortDirection(sortOrder)

	return ranking.SortResults(athlete.Results, field, direction), nil
}
