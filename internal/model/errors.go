package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, athlete, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeAthleteNotFound    = "ATHLETE_NOT_FOUND"
	ErrCodeDuplicateUsername  = "DUPLICATE_USERNAME"
	ErrCodeDuplicateEmail     = "DUPLICATE_EMAIL"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeNotConfirmed       = "NOT_CONFIRMED"
	ErrCodeInvalidSortField   = "INVALID_SORT_FIELD"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeEmptyList          = "EMPTY_LIST"
)

// NewAthleteNotFoundError は選手未検出エラーを生成する。
func NewAthleteNotFoundError(athleteID string) *APIError {
	return &APIError{
		Code:     ErrCodeAthleteNotFound,
		Message:  fmt.Sprintf("指定された選手が見つかりません: %s", athleteID),
		Category: "athlete",
		Action:   "選手IDを確認してください。",
	}
}

// NewDuplicateUsernameError はユーザー名重複エラーを生成する。
func NewDuplicateUsernameError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateUsername,
		Message:  "このユーザー名は既に使用されています。",
		Category: "validation",
		Action:   "別のユーザー名を指定してください。",
	}
}

// NewDuplicateEmailError はメールアドレス重複エラーを生成する。
func NewDuplicateEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "validation",
		Action:   "別のメールアドレスを指定するか、ログインしてください。",
	}
}

// NewInvalidCredentialsError は認証情報不一致エラーを生成する。
// ユーザー名不在とパスワード不一致を区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "ユーザー名/メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewNotConfirmedError は未承認アカウントのログイン拒否エラーを生成する。
func NewNotConfirmedError() *APIError {
	return &APIError{
		Code:     ErrCodeNotConfirmed,
		Message:  "アカウントはまだ管理者に承認されていません。",
		Category: "auth",
		Action:   "管理者の承認をお待ちください。",
	}
}

// NewInvalidSortFieldError は無効なソートフィールドエラーを生成する。
func NewInvalidSortFieldError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidSortField,
		Message:  fmt.Sprintf("無効なソートフィールドです: %s", field),
		Category: "validation",
		Action:   "recordedAt、bodyweightKg、totalLiftKg、score のいずれかを指定してください。",
	}
}

// NewInvalidRequestError はリクエスト不正エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewForbiddenError は権限不足エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "この操作を実行する権限がありません。",
		Category: "auth",
		Action:   "管理者アカウントでログインしてください。",
	}
}

// NewEmptyListError は一覧が空であることを示すエラーを生成する。
// 管理者向け一覧APIは空の結果を404で返す仕様のため、ここで表現する。
func NewEmptyListError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeEmptyList,
		Message:  message,
		Category: "athlete",
		Action:   "条件に合致する選手が登録されるまでお待ちください。",
	}
}
