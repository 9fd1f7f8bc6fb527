package domain

import "time"

// Vote records one member anonymously choosing another for the active
// question. Immutable once created. QuestionContent is snapshotted at vote
// time so later edits to the question never rewrite history.
type Vote struct {
	ID              string    `json:"id"`
	VoterID         string    `json:"voter_id"`
	CandidateID     string    `json:"candidate_id"`
	QuestionID      string    `json:"question_id"`
	QuestionContent string    `json:"question_content"`
	VoteDate        string    `json:"vote_date"` // UTC calendar day, YYYY-MM-DD
	CreatedAt       time.Time `json:"created_at"`
}

// VoteWithCandidate joins the candidate nickname for the admin statistics view
type VoteWithCandidate struct {
	Vote
	CandidateNickname string `json:"candidate_nickname"`
}

// ReceivedVote is a vote as shown to the member who received it. The voter is
// deliberately absent: the ballot stays anonymous to everyone but admins.
type ReceivedVote struct {
	ID              string    `json:"id"`
	QuestionID      string    `json:"question_id"`
	QuestionContent string    `json:"question_content"`
	VoteDate        string    `json:"vote_date"`
	CreatedAt       time.Time `json:"created_at"`
}

// Received strips the vote down to what its candidate may see.
func (v *Vote) Received() *ReceivedVote {
	return &ReceivedVote{
		ID:              v.ID,
		QuestionID:      v.QuestionID,
		QuestionContent: v.QuestionContent,
		VoteDate:        v.VoteDate,
		CreatedAt:       v.CreatedAt,
	}
}

// CreateVoteRequest is the vote submission payload
type CreateVoteRequest struct {
	CandidateID     string `json:"candidate_id"`
	QuestionID      string `json:"question_id"`
	QuestionContent string `json:"question_content"`
}

// VoteDateLayout formats a time as a vote calendar day
const VoteDateLayout = "2006-01-02"

// VoteDay returns the UTC calendar day a vote at t belongs to. The day
// boundary is UTC for every member regardless of where they browse from.
func VoteDay(t time.Time) string {
	return t.UTC().Format(VoteDateLayout)
}
