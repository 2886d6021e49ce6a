package ranking

import (
	"testing"
	"time"

	"github.com/m2ichu/wilksCalculatorApp/internal/model"
)

func resultAt(score float64, recordedAt time.Time) model.Result {
	return model.Result{
		Bodyweight: 80,
		TotalLift:  score * 1.5,
		Score:      score,
		RecordedAt: recordedAt,
	}
}

// --- ParseSortField ---

func TestParseSortField_ValidFields(t *testing.T) {
	for _, s := range []string{"recordedAt", "bodyweightKg", "totalLiftKg", "score"} {
		field, err := ParseSortField(s)
		if err != nil {
			t.Errorf("ParseSortField(%q) が失敗した: %v", s, err)
		}
		if string(field) != s {
			t.Errorf("ParseSortField(%q) = %q", s, field)
		}
	}
}

func TestParseSortField_InvalidField_ReturnsError(t *testing.T) {
	_, err := ParseSortField("password")
	if err == nil {
		t.Fatal("列挙外のフィールドはエラーになるべき")
	}

	apiErr, ok := err.(*model.APIError)
	if !ok {
		t.Fatalf("APIErrorが返るべき: %T", err)
	}
	if apiErr.Code != model.ErrCodeInvalidSortField {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeInvalidSortField)
	}
}

func TestParseSortFieldOrDefault_FallsBack(t *testing.T) {
	if got := ParseSortFieldOrDefault("", SortByRecordedAt); got != SortByRecordedAt {
		t.Errorf("空文字のフォールバック: got %q", got)
	}
	if got := ParseSortFieldOrDefault("nonsense", SortByRecordedAt); got != SortByRecordedAt {
		t.Errorf("無効値のフォールバック: got %q", got)
	}
	if got := ParseSortFieldOrDefault("score", SortByRecordedAt); got != SortByScore {
		t.Errorf("有効値は維持されるべき: got %q", got)
	}
}

func TestParseSortDirection_DefaultsToAsc(t *testing.T) {
	if got := ParseSortDirection(""); got != SortAsc {
		t.Errorf("デフォルトはasc: got %q", got)
	}
	if got := ParseSortDirection("desc"); got != SortDesc {
		t.Errorf("descの解析: got %q", got)
	}
	if got := ParseSortDirection("DESC"); got != SortAsc {
		t.Errorf("大文字は昇順扱い: got %q", got)
	}
}

// --- SortResults ---

// スコア昇順・降順ソートの基本動作を検証
func TestSortResults_ByScore(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	results := []model.Result{
		resultAt(80, base),
		resultAt(95, base.Add(time.Hour)),
		resultAt(60, base.Add(2*time.Hour)),
	}

	asc := SortResults(results, SortByScore, SortAsc)
	if asc[0].Score != 60 || asc[1].Score != 80 || asc[2].Score != 95 {
		t.Errorf("昇順ソートが不正: %v", asc)
	}

	desc := SortResults(results, SortByScore, SortDesc)
	if desc[0].Score != 95 || desc[1].Score != 80 || desc[2].Score != 60 {
		t.Errorf("降順ソートが不正: %v", desc)
	}
}

// ソートが読み出し時の射影であり、入力スライスを変更しないことを検証
func TestSortResults_DoesNotMutateInput(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	results := []model.Result{
		resultAt(95, base),
		resultAt(60, base.Add(time.Hour)),
	}

	_ = SortResults(results, SortByScore, SortAsc)

	if results[0].Score != 95 || results[1].Score != 60 {
		t.Errorf("入力スライスが変更された: %v", results)
	}
}

// 同一スコアの場合、元の提出順が保持されることを検証（安定ソート）
func TestSortResults_StableOnTies(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	first := resultAt(80, base)
	first.TotalLift = 100 // 提出順の識別用
	second := resultAt(80, base.Add(time.Hour))
	second.TotalLift = 200

	sorted := SortResults([]model.Result{first, second}, SortByScore, SortAsc)

	if sorted[0].TotalLift != 100 || sorted[1].TotalLift != 200 {
		t.Errorf("同値ソートで提出順が保持されていない: %v", sorted)
	}
}

// 提出日時でのソートを検証
func TestSortResults_ByRecordedAt(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	results := []model.Result{
		resultAt(50, base.Add(2*time.Hour)),
		resultAt(60, base),
		resultAt(70, base.Add(time.Hour)),
	}

	desc := SortResults(results, SortByRecordedAt, SortDesc)
	if !desc[0].RecordedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("最新の記録が先頭に来るべき: %v", desc[0].RecordedAt)
	}
	if !desc[2].RecordedAt.Equal(base) {
		t.Errorf("最古の記録が末尾に来るべき: %v", desc[2].RecordedAt)
	}
}

// --- BestResultPerAthlete ---

func athleteWithScores(username string, scores ...float64) model.Athlete {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := model.Athlete{
		ID:       "id-" + username,
		Username: username,
	}
	for i, s := range scores {
		a.Results = append(a.Results, resultAt(s, base.Add(time.Duration(i)*time.Hour)))
	}
	return a
}

// スコア最大の記録が選出されることを検証
func TestBestResultPerAthlete_PicksMaxScore(t *testing.T) {
	athletes := []model.Athlete{athleteWithScores("taro", 80, 95, 60)}

	entries := BestResultPerAthlete(athletes)

	if len(entries) != 1 {
		t.Fatalf("エントリ数 = %d, want 1", len(entries))
	}
	if entries[0].Best == nil {
		t.Fatal("Bestがnilであってはならない")
	}
	if entries[0].Best.Score != 95 {
		t.Errorf("Best.Score = %v, want 95", entries[0].Best.Score)
	}
}

// 記録ゼロの選手は明示的な不在値（nil）となり、エラーにならないことを検証
func TestBestResultPerAthlete_NoResults_ReturnsNilBest(t *testing.T) {
	athletes := []model.Athlete{athleteWithScores("empty")}

	entries := BestResultPerAthlete(athletes)

	if len(entries) != 1 {
		t.Fatalf("エントリ数 = %d, want 1", len(entries))
	}
	if entries[0].Best != nil {
		t.Errorf("記録なしの選手のBestはnilであるべき: %v", entries[0].Best)
	}
	if entries[0].Athlete.Username != "empty" {
		t.Errorf("サマリーが欠落している: %v", entries[0].Athlete)
	}
}

// スコア同値の場合、保存順で先に現れた記録が採用されることを検証
func TestBestResultPerAthlete_TieKeepsFirstStored(t *testing.T) {
	a := athleteWithScores("tie", 90, 90)
	a.Results[0].TotalLift = 111
	a.Results[1].TotalLift = 222

	entries := BestResultPerAthlete([]model.Athlete{a})

	if entries[0].Best.TotalLift != 111 {
		t.Errorf("同値の場合は先に保存された記録が採用されるべき: %v", entries[0].Best)
	}
}

// --- SortLeaderboard ---

// Best不在のエントリがフィールド最小値として扱われることを検証
func TestSortLeaderboard_AbsentBestSortsAsMinimum(t *testing.T) {
	entries := BestResultPerAthlete([]model.Athlete{
		athleteWithScores("strong", 300),
		athleteWithScores("none"),
		athleteWithScores("weak", 100),
	})

	asc := SortLeaderboard(entries, SortByScore, SortAsc)
	if asc[0].Athlete.Username != "none" {
		t.Errorf("昇順では記録なしが先頭に来るべき: %v", asc[0].Athlete.Username)
	}

	desc := SortLeaderboard(entries, SortByScore, SortDesc)
	if desc[len(desc)-1].Athlete.Username != "none" {
		t.Errorf("降順では記録なしが末尾に来るべき: %v", desc[len(desc)-1].Athlete.Username)
	}
	if desc[0].Athlete.Username != "strong" {
		t.Errorf("降順の先頭は最高スコアの選手: %v", desc[0].Athlete.Username)
	}
}

// リーダーボードのソートが入力を変更しないことを検証
func TestSortLeaderboard_DoesNotMutateInput(t *testing.T) {
	entries := BestResultPerAthlete([]model.Athlete{
		athleteWithScores("a", 200),
		athleteWithScores("b", 100),
	})

	_ = SortLeaderboard(entries, SortByScore, SortAsc)

	if entries[0].Athlete.Username != "a" {
		t.Errorf("入力スライスが変更された: %v", entries[0].Athlete.Username)
	}
}
