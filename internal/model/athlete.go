// Package model はドメインモデルを定義する。
package model

import "time"

// Athlete は登録された選手を表す。
// Results は提出順の追記専用シーケンスで、永続化層では
// 選手ドキュメント（行）に埋め込まれる。
type Athlete struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Bodyweight   float64 // 現在のプロフィール体重（kg）
	IsAdmin      bool
	IsConfirmed  bool
	ConfirmedAt  *time.Time
	Results      []Result
	CreatedAt    time.Time
}

// Result は1回の記録（試技）を表す。選手に埋め込まれ、
// 独立したエンティティとしては存在しない。
// Score は提出時に一度だけ計算された値を保持し、読み出し時に再計算しない。
type Result struct {
	Bodyweight float64   `json:"bodyweight"`  // この試技時点の体重（kg）
	TotalLift  float64   `json:"total_lift"`  // トータル挙上重量（kg）
	Score      float64   `json:"score"`       // Wilksスコア（確定値）
	RecordedAt time.Time `json:"recorded_at"` // 提出日時
}

// AthleteSummary は一覧・レスポンス用の選手サマリー。
// パスワードハッシュと結果履歴は含まない。
type AthleteSummary struct {
	ID          string
	Username    string
	Email       string
	FirstName   string
	LastName    string
	Bodyweight  float64
	IsAdmin     bool
	IsConfirmed bool
	ConfirmedAt *time.Time
	CreatedAt   time.Time
}

// Summary は選手のサマリーを返す。
func (a *Athlete) Summary() AthleteSummary {
	return AthleteSummary{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Bodyweight:  a.Bodyweight,
		IsAdmin:     a.IsAdmin,
		IsConfirmed: a.IsConfirmed,
		ConfirmedAt: a.ConfirmedAt,
		CreatedAt:   a.CreatedAt,
	}
}
