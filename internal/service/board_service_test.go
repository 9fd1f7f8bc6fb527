package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/domain"
	apperrors "github.com/Ryan-Dia/friendly-anon-pulse/pkg/errors"
)

func newBoardFixture(t *testing.T) (*BoardService, *fakeProfileRepo) {
	t.Helper()
	profiles := &fakeProfileRepo{}
	board := &fakeBoardRepo{profiles: profiles}
	svc := NewBoardService(board, profiles, NewRealtimeService(nil, newTestLogger(t)))

	require.NoError(t, profiles.Create(context.Background(), &domain.Profile{
		ID: "author", AccountID: "acc", Email: "author@example.com", Nickname: "작성자", Affiliation: "우아한테크코스",
	}))

	return svc, profiles
}

func TestCreatePostValidation(t *testing.T) {
	svc, _ := newBoardFixture(t)

	tests := []struct {
		name string
		req  *domain.CreateBoardPostRequest
	}{
		{
			name: "empty content",
			req:  &domain.CreateBoardPostRequest{Type: "question", Content: ""},
		},
		{
			name: "whitespace only content",
			req:  &domain.CreateBoardPostRequest{Type: "question", Content: "   \n\t"},
		},
		{
			name: "unknown type",
			req:  &domain.CreateBoardPostRequest{Type: "rant", Content: "불만이 있어요"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(context.Background(), "author", tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		})
	}
}

func TestCreatePostUnknownAuthor(t *testing.T) {
	svc, _ := newBoardFixture(t)

	_, err := svc.CreatePost(context.Background(), "ghost", &domain.CreateBoardPostRequest{
		Type:    "question",
		Content: "이 질문 어때요?",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestCreatePostTrimsAndJoinsAuthor(t *testing.T) {
	svc, _ := newBoardFixture(t)

	post, err := svc.CreatePost(context.Background(), "author", &domain.CreateBoardPostRequest{
		Type:    "improvement",
		Content: "  알림이 더 빨랐으면 좋겠어요  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "알림이 더 빨랐으면 좋겠어요", post.Content)
	assert.Equal(t, "작성자", post.AuthorNickname)
	assert.Equal(t, domain.BoardPostImprovement, post.Type)
}

func TestGetPostsFiltersByType(t *testing.T) {
	svc, _ := newBoardFixture(t)
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, "author", &domain.CreateBoardPostRequest{Type: "question", Content: "질문 제안"})
	require.NoError(t, err)
	_, err = svc.CreatePost(ctx, "author", &domain.CreateBoardPostRequest{Type: "improvement", Content: "개선 제안"})
	require.NoError(t, err)

	all, err := svc.GetPosts(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Newest first
	assert.Equal(t, "개선 제안", all[0].Content)

	questionType := domain.BoardPostQuestion
	filtered, err := svc.GetPosts(ctx, &questionType)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "질문 제안", filtered[0].Content)
}
