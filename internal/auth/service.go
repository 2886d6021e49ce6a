// Package auth は選手の登録・ログインとベアラートークンの発行を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/m2ichu/wilksCalculatorApp/internal/model"
	"github.com/m2ichu/wilksCalculatorApp/internal/repository"
)

// ProfileSanitizer はプロフィール文字列のサニタイズに必要なインターフェース。
// security.ProfileSanitizerの部分集合として定義する。
type ProfileSanitizer interface {
	Sanitize(input string) string
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	BcryptCost int // パスワードハッシュのコストパラメータ
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	repo      repository.AthleteRepository
	sanitizer ProfileSanitizer
	tokens    *TokenManager
	config    ServiceConfig
	now       func() time.Time
}

// NewService はServiceを生成する。
func NewService(
	repo repository.AthleteRepository,
	sanitizer ProfileSanitizer,
	tokens *TokenManager,
	config ServiceConfig,
) *Service {
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		tokens:    tokens,
		config:    config,
		now:       time.Now,
	}
}

// RegisterInput は登録リクエストの入力。
type RegisterInput struct {
	Username   string
	Email      string
	Password   string
	Bodyweight float64
	FirstName  string
	LastName   string
}

// Register は選手を未承認状態で新規登録する。
// ユーザー名・メールアドレスの重複はそれぞれ別のエラーコードで返す。
// 登録直後はログインできず、管理者の承認を待つ。
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.AthleteSummary, error) {
	username := s.sanitizer.Sanitize(in.Username)
	firstName := s.sanitizer.Sanitize(in.FirstName)
	lastName := s.sanitizer.Sanitize(in.LastName)

	switch {
	case username == "":
		return nil, model.NewInvalidRequestError("ユーザー名は必須です")
	case in.Email == "":
		return nil, model.NewInvalidRequestError("メールアドレスは必須です")
	case in.Password == "":
		return nil, model.NewInvalidRequestError("パスワードは必須です")
	case firstName == "" || lastName == "":
		return nil, model.NewInvalidRequestError("氏名は必須です")
	case !(in.Bodyweight > 0):
		return nil, model.NewInvalidRequestError("体重は正の数で指定してください")
	}

	// 一意性チェック。ユーザー名とメールアドレスで別々のエラーを返すため、
	// DBの一意制約に頼らず事前に検索する。
	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateUsernameError()
	}

	existing, err = s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateEmailError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	athlete := &model.Athlete{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		Bodyweight:   in.Bodyweight,
		IsAdmin:      false,
		IsConfirmed:  false,
		Results:      []model.Result{},
		CreatedAt:    s.now(),
	}

	if err := s.repo.Create(ctx, athlete); err != nil {
		return nil, fmt.Errorf("failed to create athlete: %w", err)
	}

	slog.Info("athlete registered",
		slog.String("athlete_id", athlete.ID),
		slog.String("username", athlete.Username),
	)

	summary := athlete.Summary()
	return &summary, nil
}

// Login は認証情報を検証し、ベアラートークンと選手サマリーを返す。
// 承認されていない選手は正しい認証情報でもNotConfirmedで拒否される。
// ユーザー名不在とパスワード不一致は同一のエラーで返す。
func (s *Service) Login(ctx context.Context, emailOrUsername, password string) (string, *model.AthleteSummary, error) {
	athlete, err := s.repo.FindByUsernameOrEmail(ctx, emailOrUsername)
	if err != nil {
		return "", nil, fmt.Errorf("failed to find athlete: %w", err)
	}
	if athlete == nil {
		return "", nil, model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(athlete.PasswordHash), []byte(password)); err != nil {
		return "", nil, model.NewInvalidCredentialsError()
	}

	// 承認ゲート。認証情報の検証後に評価する。
	if !athlete.IsConfirmed {
		return "", nil, model.NewNotConfirmedError()
	}

	token, err := s.tokens.Issue(athlete.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("athlete logged in",
		slog.String("athlete_id", athlete.ID),
	)

	summary := athlete.Summary()
	return token, &summary, nil
}
