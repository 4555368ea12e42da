package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/caloria-app/caloria-backend/internal/domain"
)

// DiaryRepository implements domain.DiaryRepository using PostgreSQL.
// The calorie breakdown map is stored as JSONB.
type DiaryRepository struct {
	db DB
}

// NewDiaryRepository creates a new DiaryRepository
func NewDiaryRepository(db DB) *DiaryRepository {
	return &DiaryRepository{db: db}
}

const diaryColumns = `id, user_id, content, image_url, total_calories, calorie_breakdown, created_at, updated_at`

// Create inserts a new diary entry
func (r *DiaryRepository) Create(ctx context.Context, diary *domain.Diary) (*domain.Diary, error) {
	now := time.Now().UTC()
	created := *diary
	created.ID = uuid.New()
	created.CreatedAt = now
	created.UpdatedAt = now

	breakdown, err := marshalBreakdown(created.CalorieBreakdown)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO diaries (` + diaryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.Exec(ctx, query,
		created.ID,
		created.UserID,
		created.Content,
		created.ImageURL,
		created.TotalCalories,
		breakdown,
		created.CreatedAt,
		created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert diary: %w", err)
	}

	return &created, nil
}

// GetByID retrieves a diary entry by its ID
func (r *DiaryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Diary, error) {
	query := `SELECT ` + diaryColumns + ` FROM diaries WHERE id = $1`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("query diary: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query diary: %w", err)
		}
		return nil, domain.ErrDiaryNotFound
	}

	return scanDiary(rows)
}

// GetByUser retrieves all diary entries for a user, newest first
func (r *DiaryRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Diary, error) {
	query := `
		SELECT ` + diaryColumns + `
		FROM diaries
		WHERE user_id = $1
		ORDER BY created_at DESC`

	return r.queryDiaries(ctx, query, userID)
}

// GetByPeriod retrieves a user's diary entries created within [start, end]
func (r *DiaryRepository) GetByPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Diary, error) {
	query := `
		SELECT ` + diaryColumns + `
		FROM diaries
		WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at ASC`

	return r.queryDiaries(ctx, query, userID, start, end)
}

// Update overwrites the mutable fields of an existing diary entry
func (r *DiaryRepository) Update(ctx context.Context, diary *domain.Diary) (*domain.Diary, error) {
	updated := *diary
	updated.UpdatedAt = time.Now().UTC()

	breakdown, err := marshalBreakdown(updated.CalorieBreakdown)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE diaries
		SET content = $1, image_url = $2, total_calories = $3, calorie_breakdown = $4, updated_at = $5
		WHERE id = $6`

	ct, err := r.db.Exec(ctx, query,
		updated.Content,
		updated.ImageURL,
		updated.TotalCalories,
		breakdown,
		updated.UpdatedAt,
		updated.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update diary: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return nil, domain.ErrDiaryNotFound
	}

	return &updated, nil
}

// Delete removes a diary entry
func (r *DiaryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM diaries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete diary: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrDiaryNotFound
	}

	return nil
}

func (r *DiaryRepository) queryDiaries(ctx context.Context, query string, args ...any) ([]*domain.Diary, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query diaries: %w", err)
	}
	defer rows.Close()

	diaries := []*domain.Diary{}
	for rows.Next() {
		d, err := scanDiary(rows)
		if err != nil {
			return nil, err
		}
		diaries = append(diaries, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diary rows: %w", err)
	}

	return diaries, nil
}

func scanDiary(rows pgx.Rows) (*domain.Diary, error) {
	var d domain.Diary
	var breakdown []byte

	err := rows.Scan(
		&d.ID,
		&d.UserID,
		&d.Content,
		&d.ImageURL,
		&d.TotalCalories,
		&breakdown,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDiaryNotFound
		}
		return nil, fmt.Errorf("scan diary: %w", err)
	}

	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &d.CalorieBreakdown); err != nil {
			return nil, fmt.Errorf("unmarshal calorie breakdown: %w", err)
		}
	}

	return &d, nil
}

func marshalBreakdown(breakdown map[string]float64) ([]byte, error) {
	if breakdown == nil {
		return nil, nil
	}
	data, err := json.Marshal(breakdown)
	if err != nil {
		return nil, fmt.Errorf("marshal calorie breakdown: %w", err)
	}
	return data, nil
}
