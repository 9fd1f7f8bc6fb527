package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/domain"
	"github.com/Ryan-Dia/friendly-anon-pulse/internal/repository"
	apperrors "github.com/Ryan-Dia/friendly-anon-pulse/pkg/errors"
	"github.com/Ryan-Dia/friendly-anon-pulse/pkg/logger"
	"github.com/Ryan-Dia/friendly-anon-pulse/pkg/redis"
)

// QuestionService manages the rotating prompt lifecycle. The one invariant it
// owns: at most one question is active after any of its calls return.
type QuestionService struct {
	questions repository.QuestionRepository
	redis     *redis.Client // may be nil
	realtime  *RealtimeService
	log       *logger.Logger
}

func NewQuestionService(
	questions repository.QuestionRepository,
	redisClient *redis.Client,
	realtime *RealtimeService,
	log *logger.Logger,
) *QuestionService {
	return &QuestionService{
		questions: questions,
		redis:     redisClient,
		realtime:  realtime,
		log:       log,
	}
}

// List returns every question in rotation order.
func (s *QuestionService) List(ctx context.Context) ([]*domain.Question, error) {
	questions, err := s.questions.List(ctx)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to list questions", err)
	}
	return questions, nil
}

// GetActiveQuestion returns the active question, activating the
// lowest-ordered one as a repair step when none is active. Fails only when no
// question exists at all.
func (s *QuestionService) GetActiveQuestion(ctx context.Context) (*domain.Question, error) {
	if cached := s.cachedActive(ctx); cached != nil {
		return cached, nil
	}

	active, err := s.questions.GetActive(ctx)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to get active question", err)
	}

	if active == nil {
		first, err := s.questions.GetFirstByOrder(ctx)
		if err != nil {
			return nil, apperrors.NewExternalError("failed to get first question", err)
		}
		if first == nil {
			return nil, apperrors.NewNotFoundError("no questions exist")
		}

		active, err = s.questions.ActivateExclusive(ctx, first.ID)
		if err != nil {
			return nil, apperrors.NewExternalError("failed to activate first question", err)
		}

		s.log.WithField("question_id", active.ID).Info("Repaired missing active question")
		s.realtime.Publish(ctx, TableQuestions)
	}

	s.cacheActive(ctx, active)
	return active, nil
}

// Activate makes the target question the only active one.
func (s *QuestionService) Activate(ctx context.Context, id string) (*domain.Question, error) {
	question, err := s.questions.ActivateExclusive(ctx, id)
	if err == pgx.ErrNoRows {
		return nil, apperrors.NewNotFoundError("question not found")
	}
	if err != nil {
		return nil, apperrors.NewExternalError("failed to activate question", err)
	}

	s.invalidateActive(ctx)
	s.realtime.Publish(ctx, TableQuestions)
	return question, nil
}

// Create adds a new question; new questions start inactive. When no order
// index is given the question goes to the end of the rotation.
func (s *QuestionService) Create(ctx context.Context, req *domain.CreateQuestionRequest) (*domain.Question, error) {
	if req.Content == "" {
		return nil, apperrors.NewValidationError("content is required", nil)
	}

	orderIndex := 0
	if req.OrderIndex != nil {
		orderIndex = *req.OrderIndex
	} else {
		existing, err := s.questions.List(ctx)
		if err != nil {
			return nil, apperrors.NewExternalError("failed to list questions", err)
		}
		if len(existing) > 0 {
			orderIndex = existing[len(existing)-1].OrderIndex + 1
		}
	}

	question := &domain.Question{
		ID:         uuid.NewString(),
		Content:    req.Content,
		IsActive:   false,
		OrderIndex: orderIndex,
	}

	if err := s.questions.Create(ctx, question); err != nil {
		return nil, apperrors.NewExternalError("failed to create question", err)
	}

	s.realtime.Publish(ctx, TableQuestions)
	return question, nil
}

// Update mutates content and/or order index. Past votes keep the content
// snapshot they were created with.
func (s *QuestionService) Update(ctx context.Context, id string, req *domain.UpdateQuestionRequest) (*domain.Question, error) {
	if req.Content == nil && req.OrderIndex == nil {
		return nil, apperrors.NewValidationError("nothing to update", nil)
	}
	if req.Content != nil && *req.Content == "" {
		return nil, apperrors.NewValidationError("content cannot be empty", nil)
	}

	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to get question", err)
	}
	if question == nil {
		return nil, apperrors.NewNotFoundError("question not found")
	}

	if req.Content != nil {
		question.Content = *req.Content
	}
	if req.OrderIndex != nil {
		question.OrderIndex = *req.OrderIndex
	}

	if err := s.questions.Update(ctx, question); err != nil {
		return nil, apperrors.NewExternalError("failed to update question", err)
	}

	s.invalidateActive(ctx)
	s.realtime.Publish(ctx, TableQuestions)
	return question, nil
}

// Reorder swaps the question with its neighbor in the given direction. At the
// boundaries it is a no-op and returns the unchanged question.
func (s *QuestionService) Reorder(ctx context.Context, id string, direction domain.ReorderDirection) (*domain.Question, error) {
	if direction != domain.ReorderUp && direction != domain.ReorderDown {
		return nil, apperrors.NewValidationError("direction must be up or down", nil)
	}

	questions, err := s.questions.List(ctx)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to list questions", err)
	}

	pos := -1
	for i, q := range questions {
		if q.ID == id {
			pos = i
			break
		}
	}
	if pos == -1 {
		return nil, apperrors.NewNotFoundError("question not found")
	}

	neighbor := pos - 1
	if direction == domain.ReorderDown {
		neighbor = pos + 1
	}
	if neighbor < 0 || neighbor >= len(questions) {
		return questions[pos], nil
	}

	if err := s.questions.SwapOrder(ctx, questions[pos], questions[neighbor]); err != nil {
		return nil, apperrors.NewExternalError("failed to reorder questions", err)
	}

	s.realtime.Publish(ctx, TableQuestions)
	return questions[pos], nil
}

// Delete removes a question. Deleting the active one leaves no active
// question until the next GetActiveQuestion call repairs it.
func (s *QuestionService) Delete(ctx context.Context, id string) error {
	err := s.questions.Delete(ctx, id)
	if err == pgx.ErrNoRows {
		return apperrors.NewNotFoundError("question not found")
	}
	if err != nil {
		return apperrors.NewExternalError("failed to delete question", err)
	}

	s.invalidateActive(ctx)
	s.realtime.Publish(ctx, TableQuestions)
	return nil
}

// InitializeDefaults seeds the default prompts into an empty table and
// activates the first one. A non-empty table makes this a no-op, so repeated
// calls never duplicate the seed.
func (s *QuestionService) InitializeDefaults(ctx context.Context) error {
	count, err := s.questions.Count(ctx)
	if err != nil {
		return apperrors.NewExternalError("failed to count questions", err)
	}
	if count > 0 {
		return nil
	}

	// On a multi-instance deploy every instance sees the empty table at
	// boot; the lock elects one to seed and the rest defer.
	if s.redis != nil {
		acquired, err := s.redis.SetNX(ctx, s.redis.KeyBuilder.KeySeedLock(), "1", redis.TTLSeedLock)
		if err == nil && !acquired {
			s.log.Info("Another instance is seeding default questions, skipping")
			return nil
		}
	}

	var firstID string
	for i, content := range domain.DefaultQuestions {
		question := &domain.Question{
			ID:         uuid.NewString(),
			Content:    content,
			IsActive:   false,
			OrderIndex: i,
		}
		if err := s.questions.Create(ctx, question); err != nil {
			return apperrors.NewExternalError("failed to seed questions", err)
		}
		if i == 0 {
			firstID = question.ID
		}
	}

	if _, err := s.questions.ActivateExclusive(ctx, firstID); err != nil {
		return apperrors.NewExternalError("failed to activate seeded question", err)
	}

	s.log.WithField("count", len(domain.DefaultQuestions)).Info("Seeded default questions")
	s.realtime.Publish(ctx, TableQuestions)
	return nil
}

func (s *QuestionService) cachedActive(ctx context.Context) *domain.Question {
	if s.redis == nil {
		return nil
	}

	raw, err := s.redis.Get(ctx, s.redis.KeyBuilder.KeyActiveQuestion())
	if err != nil {
		return nil
	}

	var question domain.Question
	if err := json.Unmarshal([]byte(raw), &question); err != nil {
		return nil
	}
	return &question
}

func (s *QuestionService) cacheActive(ctx context.Context, question *domain.Question) {
	if s.redis == nil {
		return
	}

	raw, err := json.Marshal(question)
	if err != nil {
		return
	}
	_ = s.redis.Set(ctx, s.redis.KeyBuilder.KeyActiveQuestion(), raw, redis.TTLActiveQuestion)
}

func (s *QuestionService) invalidateActive(ctx context.Context) {
	if s.redis == nil {
		return
	}
	_ = s.redis.Delete(ctx, s.redis.KeyBuilder.KeyActiveQuestion())
}
