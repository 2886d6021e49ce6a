// Package ranking は結果履歴のソート射影とリーダーボード集計を提供する。
//
// このパッケージはI/Oを行わない。取得済みのコレクションに対する純粋な
// 変換のみで構成され、永続化層から独立して単体テストできる。
// ソートはすべて読み出し時の射影であり、保存された順序を変更しない。
package ranking

import (
	"sort"

	"github.com/m2ichu/wilksCalculatorApp/internal/model"
)

// SortField はソート対象のフィールドを列挙する。
// 列挙外のフィールド名は境界で拒否し、動的なフィールド参照は行わない。
type SortField string

const (
	// SortByRecordedAt は提出日時でのソートを示す。
	SortByRecordedAt SortField = "recordedAt"
	// SortByBodyweight は試技時体重でのソートを示す。
	SortByBodyweight SortField = "bodyweightKg"
	// SortByTotalLift はトータル挙上重量でのソートを示す。
	SortByTotalLift SortField = "totalLiftKg"
	// SortByScore はWilksスコアでのソートを示す。
	SortByScore SortField = "score"
)

// SortDirection はソート方向を表す。
type SortDirection string

const (
	// SortAsc は昇順を示す。
	SortAsc SortDirection = "asc"
	// SortDesc は降順を示す。
	SortDesc SortDirection = "desc"
)

// ParseSortField は文字列をSortFieldに変換する。
// 列挙外の値はInvalidSortFieldエラーを返す。
func ParseSortField(s string) (SortField, error) {
	switch SortField(s) {
	case SortByRecordedAt, SortByBodyweight, SortByTotalLift, SortByScore:
		return SortField(s), nil
	default:
		return "", model.NewInvalidSortFieldError(s)
	}
}

// ParseSortFieldOrDefault は文字列をSortFieldに変換し、
// 空または列挙外の値の場合はフォールバック値を返す。
// 管理者向けリーダーボードは無効な指定を黙ってデフォルトに倒す仕様のため。
func ParseSortFieldOrDefault(s string, fallback SortField) SortField {
	field, err := ParseSortField(s)
	if err != nil {
		return fallback
	}
	return field
}

// ParseSortDirection は文字列をSortDirectionに変換する。
// "desc" 以外はすべて昇順として扱う（デフォルトasc）。
func ParseSortDirection(s string) SortDirection {
	if SortDirection(s) == SortDesc {
		return SortDesc
	}
	return SortAsc
}

// resultLess はフィールドごとの型付き比較関数。
// 等値の場合はfalseを返し、安定ソートに元の提出順を委ねる。
func resultLess(a, b model.Result, field SortField) bool {
	switch field {
	case SortByRecordedAt:
		return a.RecordedAt.Before(b.RecordedAt)
	case SortByBodyweight:
		return a.Bodyweight < b.Bodyweight
	case SortByTotalLift:
		return a.TotalLift < b.TotalLift
	default:
		return a.Score < b.Score
	}
}

// SortResults は結果のソート済みコピーを返す。入力スライスは変更しない。
// 安定ソートを使用し、同値の場合は元の提出順を保持する。
func SortResults(results []model.Result, field SortField, direction SortDirection) []model.Result {
	sorted := make([]model.Result, len(results))
	copy(sorted, results)

	sort.SliceStable(sorted, func(i, j int) bool {
		if direction == SortDesc {
			return resultLess(sorted[j], sorted[i], field)
		}
		return resultLess(sorted[i], sorted[j], field)
	})

	return sorted
}

// Entry はリーダーボードの1行を表す。
// Bestがnilの場合、その選手には記録が1件も存在しない。
// 記録なしはエラーではなく明示的な不在値として扱う。
type Entry struct {
	Athlete model.AthleteSummary
	Best    *model.Result
}

// BestResultPerAthlete は各選手の最高記録（スコア最大のResult）を抽出する。
// スコアが同値の場合は保存順で先に現れた記録を採用する。
// 記録のない選手はBest=nilのエントリとして含める。
func BestResultPerAthlete(athletes []model.Athlete) []Entry {
	entries := make([]Entry, 0, len(athletes))

	for _, a := range athletes {
		entry := Entry{Athlete: a.Summary()}

		for i := range a.Results {
			if entry.Best == nil || a.Results[i].Score > entry.Best.Score {
				best := a.Results[i]
				entry.Best = &best
			}
		}

		entries = append(entries, entry)
	}

	return entries
}

// entryLess はリーダーボードエントリの比較関数。
// Bestが不在のエントリは対象フィールドの最小値として扱い、
// ソート方向に関わらず一貫して同じ端に寄せる。
func entryLess(a, b Entry, field SortField) bool {
	if a.Best == nil && b.Best == nil {
		return false
	}
	if a.Best == nil {
		return true
	}
	if b.Best == nil {
		return false
	}
	return resultLess(*a.Best, *b.Best, field)
}

// SortLeaderboard はリーダーボードのソート済みコピーを返す。
// 各エントリのBestサブレコードのフィールドで比較する。入力は変更しない。
func SortLeaderboard(entries []Entry, field SortField, direction SortDirection) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		if direction == SortDesc {
			return entryLess(sorted[j], sorted[i], field)
		}
		return entryLess(sorted[i], sorted[j], field)
	})

	return sorted
}
