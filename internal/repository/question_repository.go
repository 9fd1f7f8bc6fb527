package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/domain"
	"github.com/Ryan-Dia/friendly-anon-pulse/pkg/database"
)

type PostgresQuestionRepository struct {
	db *database.PostgresDB
}

func NewQuestionRepository(db *database.PostgresDB) *PostgresQuestionRepository {
	return &PostgresQuestionRepository{db: db}
}

const questionColumns = "id, content, is_active, order_index, created_at, updated_at"

func scanQuestion(row pgx.Row) (*domain.Question, error) {
	var q domain.Question
	err := row.Scan(
		&q.ID,
		&q.Content,
		&q.IsActive,
		&q.OrderIndex,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *PostgresQuestionRepository) Create(ctx context.Context, question *domain.Question) error {
	query := `
		INSERT INTO questions (id, content, is_active, order_index)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		question.ID,
		question.Content,
		question.IsActive,
		question.OrderIndex,
	).Scan(&question.CreatedAt, &question.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}

	return nil
}

func (r *PostgresQuestionRepository) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	query := fmt.Sprintf(`SELECT %s FROM questions WHERE id = $1`, questionColumns)

	q, err := scanQuestion(r.db.Pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	return q, nil
}

func (r *PostgresQuestionRepository) GetActive(ctx context.Context) (*domain.Question, error) {
	query := fmt.Sprintf(`SELECT %s FROM questions WHERE is_active = true LIMIT 1`, questionColumns)

	q, err := scanQuestion(r.db.Pool.QueryRow(ctx, query))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active question: %w", err)
	}

	return q, nil
}

func (r *PostgresQuestionRepository) GetFirstByOrder(ctx context.Context) (*domain.Question, error) {
	query := fmt.Sprintf(`SELECT %s FROM questions ORDER BY order_index ASC LIMIT 1`, questionColumns)

	q, err := scanQuestion(r.db.Pool.QueryRow(ctx, query))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get first question: %w", err)
	}

	return q, nil
}

func (r *PostgresQuestionRepository) List(ctx context.Context) ([]*domain.Question, error) {
	query := fmt.Sprintf(`SELECT %s FROM questions ORDER BY order_index ASC`, questionColumns)

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []*domain.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

func (r *PostgresQuestionRepository) Update(ctx context.Context, question *domain.Question) error {
	query := `
		UPDATE questions
		SET content = $2, order_index = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		question.ID,
		question.Content,
		question.OrderIndex,
	).Scan(&question.UpdatedAt)

	if err == pgx.ErrNoRows {
		return fmt.Errorf("question %s not found", question.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}

	return nil
}

func (r *PostgresQuestionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PostgresQuestionRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// SwapOrder exchanges the order indexes of two questions atomically so the
// rotation sequence never has a transient duplicate.
func (r *PostgresQuestionRepository) SwapOrder(ctx context.Context, a, b *domain.Question) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin swap transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE questions SET order_index = $2, updated_at = now() WHERE id = $1`,
		a.ID, b.OrderIndex,
	); err != nil {
		return fmt.Errorf("failed to reorder question %s: %w", a.ID, err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE questions SET order_index = $2, updated_at = now() WHERE id = $1`,
		b.ID, a.OrderIndex,
	); err != nil {
		return fmt.Errorf("failed to reorder question %s: %w", b.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit swap: %w", err)
	}

	a.OrderIndex, b.OrderIndex = b.OrderIndex, a.OrderIndex
	return nil
}

// ActivateExclusive flips every active question off and the target on inside
// one transaction. A caller can never observe two active questions as the
// result of this call.
func (r *PostgresQuestionRepository) ActivateExclusive(ctx context.Context, id string) (*domain.Question, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin activation transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE questions SET is_active = false, updated_at = now() WHERE is_active = true`,
	); err != nil {
		return nil, fmt.Errorf("failed to deactivate questions: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE questions SET is_active = true, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, questionColumns)

	q, err := scanQuestion(tx.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, pgx.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to activate question: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit activation: %w", err)
	}

	return q, nil
}
