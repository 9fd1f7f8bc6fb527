package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/config"
	"github.com/Ryan-Dia/friendly-anon-pulse/internal/domain"
	"github.com/Ryan-Dia/friendly-anon-pulse/pkg/logger"
)

// In-memory repositories for service tests. They mimic the Postgres layer's
// contract: nil for missing rows, pgx.ErrNoRows where the real repository
// returns it, and *pgconn.PgError 23505 on unique violations.

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error")
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return log
}

func newTestConfig() *config.Config {
	return &config.Config{
		Port:           "8080",
		LogLevel:       "error",
		JWTSecret:      "test-secret",
		JWTTTL:         time.Hour,
		AdminEmail:     "admin@woowacourse.io",
		Community:      "우아한테크코스",
		MinPasswordLen: 6,
		Environment:    "test",
	}
}

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts []*domain.Account
	err      error
}

func (r *fakeAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, a := range r.accounts {
		if a.Email == account.Email {
			return uniqueViolation("accounts_email_key")
		}
	}
	account.CreatedAt = time.Now()
	r.accounts = append(r.accounts, account)
	return nil
}

func (r *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, a := range r.accounts {
		if a.Email == email {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, a := range r.accounts {
		if a.ID == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles []*domain.Profile
	err      error
}

func (r *fakeProfileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, p := range r.profiles {
		if p.AccountID == profile.AccountID {
			return uniqueViolation("profiles_account_id_key")
		}
		if p.Nickname == profile.Nickname {
			return uniqueViolation("profiles_nickname_key")
		}
	}
	profile.CreatedAt = time.Now()
	r.profiles = append(r.profiles, profile)
	return nil
}

func (r *fakeProfileRepo) GetByAccountID(ctx context.Context, accountID string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, p := range r.profiles {
		if p.AccountID == accountID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, p := range r.profiles {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeProfileRepo) ListByAffiliation(ctx context.Context, affiliation string) ([]*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Profile
	for _, p := range r.profiles {
		if p.Affiliation == affiliation {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeProfileRepo) nickname(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.ID == id {
			return p.Nickname
		}
	}
	return ""
}

type fakeQuestionRepo struct {
	mu        sync.Mutex
	questions []*domain.Question
	err       error
}

func (r *fakeQuestionRepo) Create(ctx context.Context, question *domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	question.CreatedAt = time.Now()
	question.UpdatedAt = question.CreatedAt
	copied := *question
	r.questions = append(r.questions, &copied)
	return nil
}

func (r *fakeQuestionRepo) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, q := range r.questions {
		if q.ID == id {
			copied := *q
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeQuestionRepo) GetActive(ctx context.Context) (*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, q := range r.questions {
		if q.IsActive {
			copied := *q
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeQuestionRepo) GetFirstByOrder(ctx context.Context) (*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var first *domain.Question
	for _, q := range r.questions {
		if first == nil || q.OrderIndex < first.OrderIndex {
			first = q
		}
	}
	if first == nil {
		return nil, nil
	}
	copied := *first
	return &copied, nil
}

func (r *fakeQuestionRepo) List(ctx context.Context) ([]*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.Question, 0, len(r.questions))
	for _, q := range r.questions {
		copied := *q
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r *fakeQuestionRepo) Update(ctx context.Context, question *domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, q := range r.questions {
		if q.ID == question.ID {
			q.Content = question.Content
			q.OrderIndex = question.OrderIndex
			q.UpdatedAt = time.Now()
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeQuestionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for i, q := range r.questions {
		if q.ID == id {
			r.questions = append(r.questions[:i], r.questions[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeQuestionRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	return len(r.questions), nil
}

func (r *fakeQuestionRepo) SwapOrder(ctx context.Context, a, b *domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	var ra, rb *domain.Question
	for _, q := range r.questions {
		if q.ID == a.ID {
			ra = q
		}
		if q.ID == b.ID {
			rb = q
		}
	}
	if ra == nil || rb == nil {
		return pgx.ErrNoRows
	}
	ra.OrderIndex, rb.OrderIndex = rb.OrderIndex, ra.OrderIndex
	return nil
}

func (r *fakeQuestionRepo) ActivateExclusive(ctx context.Context, id string) (*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var target *domain.Question
	for _, q := range r.questions {
		if q.ID == id {
			target = q
		}
	}
	if target == nil {
		return nil, pgx.ErrNoRows
	}
	for _, q := range r.questions {
		q.IsActive = false
	}
	target.IsActive = true
	target.UpdatedAt = time.Now()
	copied := *target
	return &copied, nil
}

func (r *fakeQuestionRepo) activeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, q := range r.questions {
		if q.IsActive {
			n++
		}
	}
	return n
}

type fakeVoteRepo struct {
	mu       sync.Mutex
	votes    []*domain.Vote
	profiles *fakeProfileRepo
	err      error
}

func (r *fakeVoteRepo) Create(ctx context.Context, vote *domain.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, v := range r.votes {
		if v.VoterID == vote.VoterID && v.VoteDate == vote.VoteDate {
			return uniqueViolation("votes_one_per_day")
		}
	}
	vote.CreatedAt = time.Now()
	copied := *vote
	r.votes = append(r.votes, &copied)
	return nil
}

func (r *fakeVoteRepo) HasVotedOnDate(ctx context.Context, voterID, date string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	for _, v := range r.votes {
		if v.VoterID == voterID && v.VoteDate == date {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeVoteRepo) ListByCandidate(ctx context.Context, candidateID string) ([]*domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Vote
	for i := len(r.votes) - 1; i >= 0; i-- {
		if r.votes[i].CandidateID == candidateID {
			copied := *r.votes[i]
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeVoteRepo) ListByDate(ctx context.Context, date string) ([]*domain.VoteWithCandidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.VoteWithCandidate
	for _, v := range r.votes {
		if v.VoteDate == date {
			out = append(out, &domain.VoteWithCandidate{
				Vote:              *v,
				CandidateNickname: r.profiles.nickname(v.CandidateID),
			})
		}
	}
	return out, nil
}

// raceVoteRepo simulates two requests racing past the pre-insert check: the
// read path sees no vote while the insert hits the unique constraint.
type raceVoteRepo struct {
	*fakeVoteRepo
}

func (r *raceVoteRepo) HasVotedOnDate(ctx context.Context, voterID, date string) (bool, error) {
	return false, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*domain.Notification
	err           error
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	notification.CreatedAt = time.Now()
	copied := *notification
	r.notifications = append(r.notifications, &copied)
	return nil
}

func (r *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, n := range r.notifications {
		if n.ID == id {
			copied := *n
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeNotificationRepo) ListByRecipient(ctx context.Context, recipientID string) ([]*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Notification
	for i := len(r.notifications) - 1; i >= 0; i-- {
		if r.notifications[i].RecipientID == recipientID {
			copied := *r.notifications[i]
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, n := range r.notifications {
		if n.ID == id {
			n.IsRead = true
			copied := *n
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	var changed int64
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			changed++
		}
	}
	return changed, nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, recipientID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	count := 0
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

type fakeBoardRepo struct {
	mu       sync.Mutex
	posts    []*domain.BoardPost
	profiles *fakeProfileRepo
	err      error
}

func (r *fakeBoardRepo) Create(ctx context.Context, post *domain.BoardPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	post.CreatedAt = time.Now()
	copied := *post
	r.posts = append(r.posts, &copied)
	return nil
}

func (r *fakeBoardRepo) List(ctx context.Context, postType *domain.BoardPostType) ([]*domain.BoardPostWithAuthor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.BoardPostWithAuthor
	for i := len(r.posts) - 1; i >= 0; i-- {
		p := r.posts[i]
		if postType != nil && p.Type != *postType {
			continue
		}
		out = append(out, &domain.BoardPostWithAuthor{
			BoardPost:      *p,
			AuthorNickname: r.profiles.nickname(p.AuthorID),
		})
	}
	return out, nil
}
