package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/domain"
	"github.com/Ryan-Dia/friendly-anon-pulse/internal/repository"
	apperrors "github.com/Ryan-Dia/friendly-anon-pulse/pkg/errors"
)

// BoardService serves the append-only suggestion board.
type BoardService struct {
	board    repository.BoardRepository
	profiles repository.ProfileRepository
	realtime *RealtimeService
}

func NewBoardService(
	board repository.BoardRepository,
	profiles repository.ProfileRepository,
	realtime *RealtimeService,
) *BoardService {
	return &BoardService{board: board, profiles: profiles, realtime: realtime}
}

// CreatePost appends a post to the board.
func (s *BoardService) CreatePost(ctx context.Context, authorID string, req *domain.CreateBoardPostRequest) (*domain.BoardPostWithAuthor, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.NewValidationError("content is required", nil)
	}
	if !domain.ValidBoardPostType(req.Type) {
		return nil, apperrors.NewValidationError("type must be question or improvement", nil)
	}

	author, err := s.profiles.GetByID(ctx, authorID)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to look up author", err)
	}
	if author == nil {
		return nil, apperrors.NewNotFoundError("author profile not found")
	}

	post := &domain.BoardPost{
		ID:       uuid.NewString(),
		AuthorID: authorID,
		Type:     domain.BoardPostType(req.Type),
		Content:  content,
	}

	if err := s.board.Create(ctx, post); err != nil {
		return nil, apperrors.NewExternalError("failed to create board post", err)
	}

	s.realtime.Publish(ctx, TableBoardPosts)

	return &domain.BoardPostWithAuthor{
		BoardPost:      *post,
		AuthorNickname: author.Nickname,
	}, nil
}

// GetPosts returns board posts newest first, optionally filtered by type.
func (s *BoardService) GetPosts(ctx context.Context, postType *domain.BoardPostType) ([]*domain.BoardPostWithAuthor, error) {
	posts, err := s.board.List(ctx, postType)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to list board posts", err)
	}
	return posts, nil
}
