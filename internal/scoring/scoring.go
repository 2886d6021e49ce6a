// Package scoring はWilksスコアの計算エンジンを提供する。
//
// 体重とトータル挙上重量から、体重・カテゴリ補正済みの比較可能な
// スコアを算出する純粋関数のみで構成される。I/Oや副作用を持たず、
// フォーム入力のたびに高頻度で呼び出しても安全。
package scoring

import "math"

// Category はスコア係数のカテゴリを表す。
type Category string

const (
	// CategoryA はカテゴリAの係数セットを示す。
	CategoryA Category = "A"
	// CategoryB はカテゴリBの係数セットを示す。
	CategoryB Category = "B"
)

// coefficients はWilks係数の5次多項式の係数タプル。
// denom = a + b·w + c·w² + d·w³ + e·w⁴ + f·w⁵
type coefficients struct {
	a, b, c, d, e, f float64
}

// 公開されているWilks係数テーブル。値の変更は過去スコアとの
// 比較可能性を壊すため、再現は厳密に行うこと。
var (
	categoryACoefficients = coefficients{
		a: -216.0475144,
		b: 16.2606339,
		c: -0.002388645,
		d: -0.00113732,
		e: 7.01863e-6,
		f: -1.291e-8,
	}
	categoryBCoefficients = coefficients{
		a: -198.5170296,
		b: 13.4127346,
		c: -0.002256158,
		d: -0.000190058,
		e: 8.056e-6,
		f: -1.707e-8,
	}
)

// ParseCategory は文字列をCategoryに変換する。
// 不明な値はCategoryAとして扱う（元実装のデフォルトに合わせる）。
func ParseCategory(s string) Category {
	if Category(s) == CategoryB {
		return CategoryB
	}
	return CategoryA
}

// Score は体重（kg）とトータル挙上重量（kg）からWilksスコアを算出する。
//
// いずれかの入力がゼロ以下・非数の場合は0を返し、エラーは発生させない。
// これはフォーム入力途中の縮退入力に対するポリシーであり、呼び出し側での
// 事前検証を不要にする。体重の物理的な範囲チェックは行わない。
//
// 丸めは最終ステップでのみ行い、小数第2位への四捨五入とする。
func Score(bodyweightKg, totalLiftKg float64, category Category) float64 {
	// NaN > 0 はfalseなので、この条件だけで非数も縮退入力として弾ける。
	if !(bodyweightKg > 0) || !(totalLiftKg > 0) {
		return 0
	}

	coef := categoryACoefficients
	if category == CategoryB {
		coef = categoryBCoefficients
	}

	w := bodyweightKg
	denom := coef.a + coef.b*w + coef.c*w*w + coef.d*w*w*w + coef.e*w*w*w*w + coef.f*w*w*w*w*w

	score := totalLiftKg * (500 / denom)

	return math.Round(score*100) / 100
}
