package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/domain"
	"github.com/Ryan-Dia/friendly-anon-pulse/internal/repository"
	apperrors "github.com/Ryan-Dia/friendly-anon-pulse/pkg/errors"
	"github.com/Ryan-Dia/friendly-anon-pulse/pkg/logger"
	"github.com/Ryan-Dia/friendly-anon-pulse/pkg/redis"
)

// VotingService enforces the voting rules: one anonymous vote per member per
// UTC calendar day, never for yourself, with a best-effort notification to
// the chosen member.
type VotingService struct {
	votes         repository.VoteRepository
	profiles      repository.ProfileRepository
	notifications repository.NotificationRepository
	redis         *redis.Client // may be nil
	realtime      *RealtimeService
	log           *logger.Logger
	now           func() time.Time
}

func NewVotingService(
	votes repository.VoteRepository,
	profiles repository.ProfileRepository,
	notifications repository.NotificationRepository,
	redisClient *redis.Client,
	realtime *RealtimeService,
	log *logger.Logger,
) *VotingService {
	return &VotingService{
		votes:         votes,
		profiles:      profiles,
		notifications: notifications,
		redis:         redisClient,
		realtime:      realtime,
		log:           log,
		now:           time.Now,
	}
}

// HasVotedToday reports whether the voter already has a vote for the current
// UTC calendar day.
func (s *VotingService) HasVotedToday(ctx context.Context, voterID string) (bool, error) {
	today := domain.VoteDay(s.now())

	if s.redis != nil {
		key := s.redis.KeyBuilder.KeyUserVoted(voterID, today)
		if n, err := s.redis.Exists(ctx, key); err == nil && n > 0 {
			return true, nil
		}
	}

	voted, err := s.votes.HasVotedOnDate(ctx, voterID, today)
	if err != nil {
		return false, apperrors.NewExternalError("failed to check today's vote", err)
	}

	if voted {
		s.setVotedFlag(ctx, voterID, today)
	}

	return voted, nil
}

// CreateVote validates, records the vote, and fans a notification out to the
// candidate. The vote is the record of truth: a failed notification is
// logged, never surfaced as a vote failure.
func (s *VotingService) CreateVote(ctx context.Context, voterID string, req *domain.CreateVoteRequest) (*domain.Vote, error) {
	if req.CandidateID == "" {
		return nil, apperrors.NewValidationError("no candidate selected", nil)
	}
	if req.CandidateID == voterID {
		return nil, apperrors.NewValidationError("you cannot vote for yourself", nil)
	}
	if req.QuestionID == "" || req.QuestionContent == "" {
		return nil, apperrors.NewValidationError("question is required", nil)
	}

	candidate, err := s.profiles.GetByID(ctx, req.CandidateID)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to look up candidate", err)
	}
	if candidate == nil {
		return nil, apperrors.NewNotFoundError("candidate not found")
	}

	voted, err := s.HasVotedToday(ctx, voterID)
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, apperrors.NewConflictError("already voted today")
	}

	today := domain.VoteDay(s.now())
	vote := &domain.Vote{
		ID:              uuid.NewString(),
		VoterID:         voterID,
		CandidateID:     req.CandidateID,
		QuestionID:      req.QuestionID,
		QuestionContent: req.QuestionContent,
		VoteDate:        today,
	}

	if err := s.votes.Create(ctx, vote); err != nil {
		// Two near-simultaneous votes race past the local check; the unique
		// constraint on (voter_id, vote_date) rejects the loser.
		if isUniqueViolation(err) {
			s.setVotedFlag(ctx, voterID, today)
			return nil, apperrors.NewConflictError("already voted today")
		}
		return nil, apperrors.NewExternalError("failed to save vote", err)
	}

	s.setVotedFlag(ctx, voterID, today)
	s.notifyCandidate(ctx, vote)
	s.realtime.Publish(ctx, TableVotes)

	return vote, nil
}

// notifyCandidate creates the "you were chosen" notification. Best-effort.
func (s *VotingService) notifyCandidate(ctx context.Context, vote *domain.Vote) {
	notification := &domain.Notification{
		ID:          uuid.NewString(),
		RecipientID: vote.CandidateID,
		Type:        domain.NotificationVote,
		Message:     fmt.Sprintf(domain.VoteNotificationMessage, vote.QuestionContent),
		Metadata: map[string]interface{}{
			"question_id": vote.QuestionID,
			"vote_date":   vote.VoteDate,
		},
	}

	if err := s.notifications.Create(ctx, notification); err != nil {
		s.log.WithError(err).WithFields(map[string]interface{}{
			"vote_id":      vote.ID,
			"candidate_id": vote.CandidateID,
		}).Warn("Vote saved but notification creation failed")
		return
	}

	if s.redis != nil {
		_ = s.redis.Delete(ctx, s.redis.KeyBuilder.KeyUnreadCount(vote.CandidateID))
	}
	s.realtime.Publish(ctx, TableNotifications)
}

// GetVotesForUser returns the votes a candidate has received, newest first,
// with the voter stripped so the ballot stays anonymous.
func (s *VotingService) GetVotesForUser(ctx context.Context, candidateID string) ([]*domain.ReceivedVote, error) {
	votes, err := s.votes.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to list votes", err)
	}

	received := make([]*domain.ReceivedVote, 0, len(votes))
	for _, vote := range votes {
		received = append(received, vote.Received())
	}
	return received, nil
}

// GetTodayVotes returns today's votes with candidate nicknames for the admin
// statistics view. Read-only.
func (s *VotingService) GetTodayVotes(ctx context.Context) ([]*domain.VoteWithCandidate, error) {
	votes, err := s.votes.ListByDate(ctx, domain.VoteDay(s.now()))
	if err != nil {
		return nil, apperrors.NewExternalError("failed to list today's votes", err)
	}
	return votes, nil
}

func (s *VotingService) setVotedFlag(ctx context.Context, voterID, date string) {
	if s.redis == nil {
		return
	}
	key := s.redis.KeyBuilder.KeyUserVoted(voterID, date)
	_ = s.redis.Set(ctx, key, "1", redis.TTLVotedFlag)
}
