package quiz

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTopic   = errors.New("topic is required and must be at most 200 characters")
	ErrInvalidAnswers = errors.New("userAnswers must be an object keyed by question index")
	ErrInvalidSession = errors.New("invalid or foreign quiz session token")
	ErrUserNotFound   = errors.New("user not found")
	ErrQuizNotFound   = errors.New("quiz not found or expired")
	ErrEmptyQuiz      = errors.New("quiz has no questions")
)

type GenerationReason string

const (
	ReasonUpstream         GenerationReason = "upstream failure"
	ReasonMalformed        GenerationReason = "malformed response"
	ReasonInvalidStructure GenerationReason = "invalid question structure"
)

// GenerationError is returned when a quiz could not be produced. Nothing is
// cached when it occurs.
type GenerationError struct {
	Reason GenerationReason
	Detail string

	// Raw is the model text that failed to parse, if any.
	Raw string
	Err error
}

func (e *GenerationError) Error() string {
	if e.Detail == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

func (e *GenerationError) Unwrap() error { return e.Err }
