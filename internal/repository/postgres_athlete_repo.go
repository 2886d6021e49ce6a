package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/m2ichu/wilksCalculatorApp/internal/model"
)

// athleteColumns はSELECT句で使用するカラムリスト。scanAthleteと対応を保つこと。
const athleteColumns = `id, username, email, password_hash, first_name, last_name,
	bodyweight, is_admin, is_confirmed, confirmed_at, results, created_at`

// PostgresAthleteRepo はPostgreSQLを使用した選手リポジトリ。
// 結果履歴はresultsカラム（JSONB配列）に埋め込んで保存する。
type PostgresAthleteRepo struct {
	db *sql.DB
}

// NewPostgresAthleteRepo はPostgresAthleteRepoを生成する。
func NewPostgresAthleteRepo(db *sql.DB) *PostgresAthleteRepo {
	return &PostgresAthleteRepo{db: db}
}

// rowScanner はsql.Rowとsql.Rowsの共通部分。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanAthlete は1行を*model.Athleteに変換する。
func scanAthlete(row rowScanner) (*model.Athlete, error) {
	a := &model.Athlete{}
	var confirmedAt sql.NullTime
	var rawResults []byte

	err := row.Scan(
		&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName,
		&a.Bodyweight, &a.IsAdmin, &a.IsConfirmed, &confirmedAt, &rawResults, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if confirmedAt.Valid {
		t := confirmedAt.Time
		a.ConfirmedAt = &t
	}

	if len(rawResults) > 0 {
		if err := json.Unmarshal(rawResults, &a.Results); err != nil {
			return nil, fmt.Errorf("failed to unmarshal results: %w", err)
		}
	}

	return a, nil
}

// findOne は条件句1つで選手を1件検索する。見つからない場合はnilを返す。
func (r *PostgresAthleteRepo) findOne(ctx context.Context, where string, arg any) (*model.Athlete, error) {
	query := fmt.Sprintf(`SELECT %s FROM athletes WHERE %s`, athleteColumns, where)

	athlete, err := scanAthlete(r.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find athlete: %w", err)
	}

	return athlete, nil
}

// Create は選手を新規作成する。
func (r *PostgresAthleteRepo) Create(ctx context.Context, athlete *model.Athlete) error {
	results := athlete.Results
	if results == nil {
		results = []model.Result{}
	}
	rawResults, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	var confirmedAt sql.NullTime
	if athlete.ConfirmedAt != nil {
		confirmedAt = sql.NullTime{Time: *athlete.ConfirmedAt, Valid: true}
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO athletes (id, username, email, password_hash, first_name, last_name,
		 bodyweight, is_admin, is_confirmed, confirmed_at, results, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		athlete.ID, athlete.Username, athlete.Email, athlete.PasswordHash,
		athlete.FirstName, athlete.LastName, athlete.Bodyweight,
		athlete.IsAdmin, athlete.IsConfirmed, confirmedAt, rawResults, athlete.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert athlete: %w", err)
	}

	return nil
}

// FindByID は指定IDの選手を取得する。見つからない場合はnilを返す。
func (r *PostgresAthleteRepo) FindByID(ctx context.Context, id string) (*model.Athlete, error) {
	return r.findOne(ctx, `id = $1`, id)
}

// FindByUsername はユーザー名で選手を検索する。見つからない場合はnilを返す。
func (r *PostgresAthleteRepo) FindByUsername(ctx context.Context, username string) (*model.Athlete, error) {
	return r.findOne(ctx, `username = $1`, username)
}

// FindByEmail はメールアドレスで選手を検索する。見つからない場合はnilを返す。
func (r *PostgresAthleteRepo) FindByEmail(ctx context.Context, email string) (*model.Athlete, error) {
	return r.findOne(ctx, `email = $1`, email)
}

// FindByUsernameOrEmail はユーザー名またはメールアドレスで選手を検索する。
// 大文字小文字は保存値の通りに区別する。見つからない場合はnilを返す。
func (r *PostgresAthleteRepo) FindByUsernameOrEmail(ctx context.Context, emailOrUsername string) (*model.Athlete, error) {
	return r.findOne(ctx, `username = $1 OR email = $1`, emailOrUsername)
}

// ListByConfirmed は承認状態で選手一覧を取得する。登録日時の昇順で返す。
func (r *PostgresAthleteRepo) ListByConfirmed(ctx context.Context, confirmed bool) ([]*model.Athlete, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM athletes WHERE is_confirmed = $1 ORDER BY created_at ASC`,
		athleteColumns,
	)

	rows, err := r.db.QueryContext(ctx, query, confirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to list athletes: %w", err)
	}
	defer rows.Close()

	var athletes []*model.Athlete
	for rows.Next() {
		a, err := scanAthlete(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan athlete: %w", err)
		}
		athletes = append(athletes, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate athletes: %w", err)
	}

	return athletes, nil
}

// AppendResult は選手の結果履歴の末尾に1件追記し、更新後の履歴を返す。
// 単一のUPDATE文で追記するため、同一選手への並行提出は行ロックで直列化され、
// 部分的な追記や履歴の破損は起こらない。
func (r *PostgresAthleteRepo) AppendResult(ctx context.Context, athleteID string, result model.Result) ([]model.Result, error) {
	payload, err := json.Marshal([]model.Result{result})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	var rawResults []byte
	err = r.db.QueryRowContext(ctx,
		`UPDATE athletes SET results = results || $2::jsonb WHERE id = $1 RETURNING results`,
		athleteID, payload,
	).Scan(&rawResults)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("athlete not found: %s", athleteID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to append result: %w", err)
	}

	var results []model.Result
	if err := json.Unmarshal(rawResults, &results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal results: %w", err)
	}

	return results, nil
}

// Confirm は選手を承認済みにし、更新後の選手を返す。見つからない場合はnilを返す。
// 既に承認済みの場合もconfirmedAtを上書きする（再承認の再スタンプを許容）。
func (r *PostgresAthleteRepo) Confirm(ctx context.Context, id string, confirmedAt time.Time) (*model.Athlete, error) {
	query := fmt.Sprintf(
		`UPDATE athletes SET is_confirmed = TRUE, confirmed_at = $2 WHERE id = $1 RETURNING %s`,
		athleteColumns,
	)

	athlete, err := scanAthlete(r.db.QueryRowContext(ctx, query, id, confirmedAt))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to confirm athlete: %w", err)
	}

	return athlete, nil
}

// DeleteByID は指定IDの選手を削除する。埋め込まれた結果履歴も行ごと消える。
func (r *PostgresAthleteRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM athletes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete athlete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("athlete not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ AthleteRepository = (*PostgresAthleteRepo)(nil)
