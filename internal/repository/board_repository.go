package repository

import (
	"context"
	"fmt"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/domain"
	"github.com/Ryan-Dia/friendly-anon-pulse/pkg/database"
)

// The column is post_type, not type: "type" would shadow the SQL keyword and
// the schema check constraint names it post_type.
const (
	boardPostInsert = `
		INSERT INTO board_posts (id, author_id, post_type, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	boardPostSelect = `
		SELECT b.id, b.author_id, b.post_type, b.content, b.created_at, p.nickname
		FROM board_posts b
		JOIN profiles p ON p.id = b.author_id
	`
)

type PostgresBoardRepository struct {
	db *database.PostgresDB
}

func NewBoardRepository(db *database.PostgresDB) *PostgresBoardRepository {
	return &PostgresBoardRepository{db: db}
}

func (r *PostgresBoardRepository) Create(ctx context.Context, post *domain.BoardPost) error {
	err := r.db.Pool.QueryRow(ctx, boardPostInsert,
		post.ID,
		post.AuthorID,
		string(post.Type),
		post.Content,
	).Scan(&post.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create board post: %w", err)
	}

	return nil
}

func (r *PostgresBoardRepository) List(ctx context.Context, postType *domain.BoardPostType) ([]*domain.BoardPostWithAuthor, error) {
	query := boardPostSelect
	args := []interface{}{}
	if postType != nil {
		query += ` WHERE b.post_type = $1`
		args = append(args, string(*postType))
	}
	query += ` ORDER BY b.created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list board posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.BoardPostWithAuthor
	for rows.Next() {
		var post domain.BoardPostWithAuthor
		var typeTag string
		err := rows.Scan(
			&post.ID,
			&post.AuthorID,
			&typeTag,
			&post.Content,
			&post.CreatedAt,
			&post.AuthorNickname,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan board post: %w", err)
		}
		post.Type = domain.BoardPostType(typeTag)
		posts = append(posts, &post)
	}

	return posts, rows.Err()
}
