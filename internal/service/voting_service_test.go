package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/domain"
	"github.com/Ryan-Dia/friendly-anon-pulse/internal/repository"
	apperrors "github.com/Ryan-Dia/friendly-anon-pulse/pkg/errors"
)

type votingFixture struct {
	svc           *VotingService
	votes         *fakeVoteRepo
	profiles      *fakeProfileRepo
	notifications *fakeNotificationRepo
}

func newVotingFixture(t *testing.T) *votingFixture {
	t.Helper()
	profiles := &fakeProfileRepo{}
	votes := &fakeVoteRepo{profiles: profiles}
	notifications := &fakeNotificationRepo{}
	log := newTestLogger(t)
	svc := NewVotingService(votes, profiles, notifications, nil, NewRealtimeService(nil, log), log)

	for _, p := range []*domain.Profile{
		{ID: "voter", AccountID: "acc-voter", Email: "voter@example.com", Nickname: "보터", Affiliation: "우아한테크코스"},
		{ID: "candidate", AccountID: "acc-candidate", Email: "candidate@example.com", Nickname: "캔디", Affiliation: "우아한테크코스"},
	} {
		require.NoError(t, profiles.Create(context.Background(), p))
	}

	return &votingFixture{svc: svc, votes: votes, profiles: profiles, notifications: notifications}
}

func validVoteRequest() *domain.CreateVoteRequest {
	return &domain.CreateVoteRequest{
		CandidateID:     "candidate",
		QuestionID:      "q-1",
		QuestionContent: "오늘 가장 함께 점심을 먹고 싶은 사람은?",
	}
}

func TestCreateVoteValidation(t *testing.T) {
	f := newVotingFixture(t)

	tests := []struct {
		name string
		req  *domain.CreateVoteRequest
	}{
		{
			name: "no candidate selected",
			req:  &domain.CreateVoteRequest{QuestionID: "q-1", QuestionContent: "..."},
		},
		{
			name: "self vote",
			req:  &domain.CreateVoteRequest{CandidateID: "voter", QuestionID: "q-1", QuestionContent: "..."},
		},
		{
			name: "missing question id",
			req:  &domain.CreateVoteRequest{CandidateID: "candidate", QuestionContent: "..."},
		},
		{
			name: "missing question content",
			req:  &domain.CreateVoteRequest{CandidateID: "candidate", QuestionID: "q-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateVote(context.Background(), "voter", tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		})
	}
}

func TestCreateVoteUnknownCandidate(t *testing.T) {
	f := newVotingFixture(t)

	req := validVoteRequest()
	req.CandidateID = "ghost"

	_, err := f.svc.CreateVote(context.Background(), "voter", req)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestCreateVoteRecordsAndNotifies(t *testing.T) {
	f := newVotingFixture(t)
	ctx := context.Background()

	vote, err := f.svc.CreateVote(ctx, "voter", validVoteRequest())
	require.NoError(t, err)
	assert.Equal(t, "voter", vote.VoterID)
	assert.Equal(t, "candidate", vote.CandidateID)
	assert.Equal(t, domain.VoteDay(time.Now()), vote.VoteDate)

	// The candidate got exactly one vote notification with the question
	// content embedded; the voter stays anonymous.
	feed, err := f.notifications.ListByRecipient(ctx, "candidate")
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, domain.NotificationVote, feed[0].Type)
	assert.Equal(t, fmt.Sprintf(domain.VoteNotificationMessage, vote.QuestionContent), feed[0].Message)
	assert.NotContains(t, feed[0].Message, "voter")
	assert.Equal(t, vote.QuestionID, feed[0].Metadata["question_id"])
}

func TestCreateVoteTwiceSameDayConflicts(t *testing.T) {
	f := newVotingFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateVote(ctx, "voter", validVoteRequest())
	require.NoError(t, err)

	_, err = f.svc.CreateVote(ctx, "voter", validVoteRequest())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

	// The losing attempt never notified anyone
	feed, err := f.notifications.ListByRecipient(ctx, "candidate")
	require.NoError(t, err)
	assert.Len(t, feed, 1)
}

func TestCreateVoteRaceLosesToUniqueConstraint(t *testing.T) {
	f := newVotingFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateVote(ctx, "voter", validVoteRequest())
	require.NoError(t, err)

	// The pre-insert check misses the concurrent vote; the constraint
	// violation from the insert must still surface as a conflict.
	raced := NewVotingService(
		&raceVoteRepo{fakeVoteRepo: f.votes},
		f.profiles,
		f.notifications,
		nil,
		NewRealtimeService(nil, newTestLogger(t)),
		newTestLogger(t),
	)

	_, err = raced.CreateVote(ctx, "voter", validVoteRequest())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestCreateVoteAllowedNextDay(t *testing.T) {
	f := newVotingFixture(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 23, 50, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return base }

	_, err := f.svc.CreateVote(ctx, "voter", validVoteRequest())
	require.NoError(t, err)

	// Ten minutes later it is a new UTC day and the voter may vote again
	f.svc.now = func() time.Time { return base.Add(10 * time.Minute) }

	vote, err := f.svc.CreateVote(ctx, "voter", validVoteRequest())
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", vote.VoteDate)
}

func TestCreateVoteSurvivesNotificationFailure(t *testing.T) {
	f := newVotingFixture(t)
	ctx := context.Background()

	f.notifications.err = errors.New("notifications table is on fire")

	// The vote is the record of truth; the failed fan-out is logged only.
	vote, err := f.svc.CreateVote(ctx, "voter", validVoteRequest())
	require.NoError(t, err)
	require.NotNil(t, vote)

	voted, err := f.svc.HasVotedToday(ctx, "voter")
	require.NoError(t, err)
	assert.True(t, voted)
}

func TestHasVotedToday(t *testing.T) {
	f := newVotingFixture(t)
	ctx := context.Background()

	voted, err := f.svc.HasVotedToday(ctx, "voter")
	require.NoError(t, err)
	assert.False(t, voted)

	_, err = f.svc.CreateVote(ctx, "voter", validVoteRequest())
	require.NoError(t, err)

	voted, err = f.svc.HasVotedToday(ctx, "voter")
	require.NoError(t, err)
	assert.True(t, voted)
}

func TestGetVotesForUserNewestFirst(t *testing.T) {
	f := newVotingFixture(t)
	ctx := context.Background()

	require.NoError(t, f.profiles.Create(ctx, &domain.Profile{
		ID: "voter-2", AccountID: "acc-2", Email: "two@example.com", Nickname: "투", Affiliation: "우아한테크코스",
	}))

	_, err := f.svc.CreateVote(ctx, "voter", validVoteRequest())
	require.NoError(t, err)

	req := validVoteRequest()
	req.QuestionContent = "두 번째 질문"
	_, err = f.svc.CreateVote(ctx, "voter-2", req)
	require.NoError(t, err)

	received, err := f.svc.GetVotesForUser(ctx, "candidate")
	require.NoError(t, err)
	require.Len(t, received, 2)
	assert.Equal(t, "두 번째 질문", received[0].QuestionContent)
}

func TestReceivedVotesKeepVoterAnonymous(t *testing.T) {
	f := newVotingFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateVote(ctx, "voter", validVoteRequest())
	require.NoError(t, err)

	received, err := f.svc.GetVotesForUser(ctx, "candidate")
	require.NoError(t, err)
	require.Len(t, received, 1)

	// What the candidate sees must never identify the voter
	body, err := json.Marshal(received)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "voter")
	assert.Contains(t, string(body), "question_content")
}

func TestGetTodayVotesJoinsNicknames(t *testing.T) {
	f := newVotingFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateVote(ctx, "voter", validVoteRequest())
	require.NoError(t, err)

	today, err := f.svc.GetTodayVotes(ctx)
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, "캔디", today[0].CandidateNickname)
}

var _ repository.VoteRepository = (*raceVoteRepo)(nil)
