package domain

import "time"

// BoardPostType is the closed set of board post kinds
type BoardPostType string

const (
	// BoardPostQuestion is a member-suggested prompt idea
	BoardPostQuestion    BoardPostType = "question"
	BoardPostImprovement BoardPostType = "improvement"
)

// ValidBoardPostType reports whether s is one of the accepted post kinds
func ValidBoardPostType(s string) bool {
	switch BoardPostType(s) {
	case BoardPostQuestion, BoardPostImprovement:
		return true
	}
	return false
}

// BoardPost is an append-only suggestion board entry. No edit or delete path.
type BoardPost struct {
	ID        string        `json:"id"`
	AuthorID  string        `json:"author_id"`
	Type      BoardPostType `json:"type"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
}

// BoardPostWithAuthor joins the author nickname for display
type BoardPostWithAuthor struct {
	BoardPost
	AuthorNickname string `json:"author_nickname"`
}

// CreateBoardPostRequest is the post submission payload
type CreateBoardPostRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}
