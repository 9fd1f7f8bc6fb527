package repository

import (
	"context"
	"fmt"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/domain"
	"github.com/Ryan-Dia/friendly-anon-pulse/pkg/database"
)

type PostgresVoteRepository struct {
	db *database.PostgresDB
}

func NewVoteRepository(db *database.PostgresDB) *PostgresVoteRepository {
	return &PostgresVoteRepository{db: db}
}

// Create inserts a vote. A unique-violation on (voter_id, vote_date) is
// returned unwrapped so the service layer can classify the race.
func (r *PostgresVoteRepository) Create(ctx context.Context, vote *domain.Vote) error {
	query := `
		INSERT INTO votes (id, voter_id, candidate_id, question_id, question_content, vote_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		vote.ID,
		vote.VoterID,
		vote.CandidateID,
		vote.QuestionID,
		vote.QuestionContent,
		vote.VoteDate,
	).Scan(&vote.CreatedAt)

	if err != nil {
		return err
	}

	return nil
}

func (r *PostgresVoteRepository) HasVotedOnDate(ctx context.Context, voterID, date string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM votes WHERE voter_id = $1 AND vote_date = $2)`

	err := r.db.Pool.QueryRow(ctx, query, voterID, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check vote for date: %w", err)
	}

	return exists, nil
}

func (r *PostgresVoteRepository) ListByCandidate(ctx context.Context, candidateID string) ([]*domain.Vote, error) {
	query := `
		SELECT id, voter_id, candidate_id, question_id, question_content,
		       to_char(vote_date, 'YYYY-MM-DD'), created_at
		FROM votes
		WHERE candidate_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes for candidate: %w", err)
	}
	defer rows.Close()

	var votes []*domain.Vote
	for rows.Next() {
		var vote domain.Vote
		err := rows.Scan(
			&vote.ID,
			&vote.VoterID,
			&vote.CandidateID,
			&vote.QuestionID,
			&vote.QuestionContent,
			&vote.VoteDate,
			&vote.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, &vote)
	}

	return votes, rows.Err()
}

// ListByDate joins candidate nicknames for the admin statistics view.
func (r *PostgresVoteRepository) ListByDate(ctx context.Context, date string) ([]*domain.VoteWithCandidate, error) {
	query := `
		SELECT v.id, v.voter_id, v.candidate_id, v.question_id, v.question_content,
		       to_char(v.vote_date, 'YYYY-MM-DD'), v.created_at, p.nickname
		FROM votes v
		JOIN profiles p ON p.id = v.candidate_id
		WHERE v.vote_date = $1
		ORDER BY v.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes for date: %w", err)
	}
	defer rows.Close()

	var votes []*domain.VoteWithCandidate
	for rows.Next() {
		var vote domain.VoteWithCandidate
		err := rows.Scan(
			&vote.ID,
			&vote.VoterID,
			&vote.CandidateID,
			&vote.QuestionID,
			&vote.QuestionContent,
			&vote.VoteDate,
			&vote.CreatedAt,
			&vote.CandidateNickname,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, &vote)
	}

	return votes, rows.Err()
}
