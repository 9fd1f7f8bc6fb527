package repository

import (
	"context"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/domain"
)

// AccountRepository defines the interface for credential records
type AccountRepository interface {
	// Create inserts a new account
	Create(ctx context.Context, account *domain.Account) error

	// GetByEmail retrieves an account by email, nil when absent
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// GetByID retrieves an account by ID, nil when absent
	GetByID(ctx context.Context, id string) (*domain.Account, error)
}

// ProfileRepository defines the interface for community profiles
type ProfileRepository interface {
	// Create inserts a new profile
	Create(ctx context.Context, profile *domain.Profile) error

	// GetByAccountID retrieves the profile provisioned for an account, nil when absent
	GetByAccountID(ctx context.Context, accountID string) (*domain.Profile, error)

	// GetByID retrieves a profile by ID, nil when absent
	GetByID(ctx context.Context, id string) (*domain.Profile, error)

	// ListByAffiliation lists profiles of one community, created_at ascending
	ListByAffiliation(ctx context.Context, affiliation string) ([]*domain.Profile, error)
}

// QuestionRepository defines the interface for the rotating prompts
type QuestionRepository interface {
	// Create inserts a new question
	Create(ctx context.Context, question *domain.Question) error

	// GetByID retrieves a question by ID, nil when absent
	GetByID(ctx context.Context, id string) (*domain.Question, error)

	// GetActive retrieves the active question, nil when none is active
	GetActive(ctx context.Context) (*domain.Question, error)

	// GetFirstByOrder retrieves the question with the lowest order index, nil on empty table
	GetFirstByOrder(ctx context.Context) (*domain.Question, error)

	// List returns all questions ordered by order index ascending
	List(ctx context.Context) ([]*domain.Question, error)

	// Update persists content and order index changes
	Update(ctx context.Context, question *domain.Question) error

	// Delete removes a question
	Delete(ctx context.Context, id string) error

	// Count returns the number of questions
	Count(ctx context.Context) (int, error)

	// SwapOrder exchanges the order indexes of two questions in one transaction
	SwapOrder(ctx context.Context, a, b *domain.Question) error

	// ActivateExclusive deactivates every question and activates the given one
	// in a single transaction, then returns the activated row
	ActivateExclusive(ctx context.Context, id string) (*domain.Question, error)
}

// VoteRepository defines the interface for vote records
type VoteRepository interface {
	// Create inserts a new vote. The (voter, vote_date) unique constraint is
	// the race backstop for the one-vote-per-day rule.
	Create(ctx context.Context, vote *domain.Vote) error

	// HasVotedOnDate reports whether the voter already has a vote on the given day
	HasVotedOnDate(ctx context.Context, voterID, date string) (bool, error)

	// ListByCandidate returns votes received by a candidate, newest first
	ListByCandidate(ctx context.Context, candidateID string) ([]*domain.Vote, error)

	// ListByDate returns all votes of one day joined with candidate nicknames
	ListByDate(ctx context.Context, date string) ([]*domain.VoteWithCandidate, error)
}

// NotificationRepository defines the interface for the notification feed
type NotificationRepository interface {
	// Create inserts a new notification
	Create(ctx context.Context, notification *domain.Notification) error

	// GetByID retrieves a notification by ID, nil when absent
	GetByID(ctx context.Context, id string) (*domain.Notification, error)

	// ListByRecipient returns a recipient's notifications, newest first
	ListByRecipient(ctx context.Context, recipientID string) ([]*domain.Notification, error)

	// MarkRead flips one notification to read and returns it, nil when absent
	MarkRead(ctx context.Context, id string) (*domain.Notification, error)

	// MarkAllRead flips every unread notification of a recipient, returning
	// how many rows changed
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)

	// CountUnread returns the recipient's unread count
	CountUnread(ctx context.Context, recipientID string) (int, error)
}

// BoardRepository defines the interface for suggestion board posts
type BoardRepository interface {
	// Create inserts a new post
	Create(ctx context.Context, post *domain.BoardPost) error

	// List returns posts newest first, optionally filtered by type
	List(ctx context.Context, postType *domain.BoardPostType) ([]*domain.BoardPostWithAuthor, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Account      AccountRepository
	Profile      ProfileRepository
	Question     QuestionRepository
	Vote         VoteRepository
	Notification NotificationRepository
	Board        BoardRepository
}
