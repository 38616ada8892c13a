package domain

import "time"

// User is a registered account.
type User struct {
	ID           string `json:"id"`
	FullName     string `json:"fullname"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Rights       int    `json:"rights"`
}

// Answers holds raw quiz answers keyed by question text. Values are whatever
// the client sent: strings, numbers, or lists of strings.
type Answers map[string]any

// AnswerSet is one quiz submission.
type AnswerSet struct {
	Username    string
	Answers     Answers
	SubmittedAt time.Time
}
