// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/m2ichu/wilksCalculatorApp/internal/model"
)

// AthleteRepository は選手データの永続化インターフェース。
// 結果履歴は選手行に埋め込まれており、独立したコレクションを持たない。
// すべての書き込みは単一行に閉じるため、行単位のアトミシティで完結する。
type AthleteRepository interface {
	// Create は選手を新規作成する。
	// username/emailの一意制約違反はドライバのエラーとしてそのまま返す。
	Create(ctx context.Context, athlete *model.Athlete) error

	// FindByID は指定IDの選手を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Athlete, error)

	// FindByUsername はユーザー名で選手を検索する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.Athlete, error)

	// FindByEmail はメールアドレスで選手を検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.Athlete, error)

	// FindByUsernameOrEmail はユーザー名またはメールアドレスのいずれかが
	// 一致する選手を検索する。見つからない場合はnilを返す。
	FindByUsernameOrEmail(ctx context.Context, emailOrUsername string) (*model.Athlete, error)

	// ListByConfirmed は承認状態で選手一覧を取得する。登録日時の昇順で返す。
	ListByConfirmed(ctx context.Context, confirmed bool) ([]*model.Athlete, error)

	// AppendResult は選手の結果履歴の末尾に1件追記し、更新後の履歴を返す。
	// 追記は単一のUPDATE文で行われ、同一選手への並行追記は行ロックで直列化される。
	// 選手が存在しない場合はエラーを返す。
	AppendResult(ctx context.Context, athleteID string, result model.Result) ([]model.Result, error)

	// Confirm は選手を承認済みにし、confirmedAtを記録して更新後の選手を返す。
	// 承認済みの選手に対して再度呼ばれた場合もconfirmedAtを上書きする。
	// 見つからない場合はnilを返す。
	Confirm(ctx context.Context, id string, confirmedAt time.Time) (*model.Athlete, error)

	// DeleteByID は指定IDの選手を削除する。埋め込まれた結果履歴も行ごと消える。
	// 選手が存在しない場合はエラーを返す。
	DeleteByID(ctx context.Context, id string) error
}
