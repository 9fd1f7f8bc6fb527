package service

import (
	"context"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/domain"
)

// TokenValidator is the slice of AuthService the auth middleware needs.
type TokenValidator interface {
	// ValidateToken parses a session token and returns the caller's identity
	ValidateToken(ctx context.Context, token string) (*domain.Identity, error)
}

// Services aggregates the application services
type Services struct {
	Auth         *AuthService
	Profile      *ProfileService
	Question     *QuestionService
	Voting       *VotingService
	Notification *NotificationService
	Board        *BoardService
	Realtime     *RealtimeService
}
