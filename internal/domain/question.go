package domain

import "time"

// Question represents a rotating daily prompt. At most one question is
// active at any time; order_index drives the rotation sequence.
type Question struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	IsActive   bool      `json:"is_active"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReorderDirection moves a question up or down the rotation sequence
type ReorderDirection string

const (
	ReorderUp   ReorderDirection = "up"
	ReorderDown ReorderDirection = "down"
)

// CreateQuestionRequest is the admin payload for a new question
type CreateQuestionRequest struct {
	Content    string `json:"content"`
	OrderIndex *int   `json:"order_index,omitempty"`
}

// UpdateQuestionRequest mutates content and/or order independently
type UpdateQuestionRequest struct {
	Content    *string `json:"content,omitempty"`
	OrderIndex *int    `json:"order_index,omitempty"`
}

// ReorderQuestionRequest is the admin payload for a reorder
type ReorderQuestionRequest struct {
	Direction ReorderDirection `json:"direction"`
}

// DefaultQuestions seeds an empty question table. Order matters: the first
// entry becomes the initial active question.
var DefaultQuestions = []string{
	"오늘 가장 함께 점심을 먹고 싶은 사람은?",
	"세상에서 제일 웃긴 것 같은 사람은?",
	"힘든 일이 있을 때 기대고 싶은 사람은?",
	"가장 센스가 좋다고 생각하는 사람은?",
	"같이 여행을 가고 싶은 사람은?",
	"가장 열정적이라고 생각하는 사람은?",
	"함께 프로젝트를 하고 싶은 사람은?",
}
