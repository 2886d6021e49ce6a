// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ProfileSanitizer はユーザーが入力するプロフィール文字列（ユーザー名・氏名）
// からHTMLタグやスクリプトを除去し、管理画面での表示時のXSSを防ぐ。
// bluemondayのStrictPolicyにより、タグはすべて除去されテキストのみが残る。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ProfileSanitizer はプロフィール文字列のサニタイズ機能のインターフェース。
// 登録時の入力に対して使用される。
type ProfileSanitizer interface {
	// Sanitize は入力からHTMLをすべて除去し、前後の空白を取り除いて返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(input string) string
}

// profileSanitizer はProfileSanitizerの実装。
// bluemondayのポリシーはスレッドセーフであり、共有して使用できる。
type profileSanitizer struct {
	policy *bluemonday.Policy
}

// NewProfileSanitizer はProfileSanitizerの新しいインスタンスを生成する。
// StrictPolicyを使用するため、許可されるタグは存在しない。
func NewProfileSanitizer() *profileSanitizer {
	return &profileSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からHTMLをすべて除去し、前後の空白を取り除いて返す。
func (s *profileSanitizer) Sanitize(input string) string {
	return strings.TrimSpace(s.policy.Sanitize(input))
}
