package quiz

import (
	"strconv"
	"strings"
)

const (
	MinQuestions = 1
	MaxQuestions = 10
)

func ClampQuestionCount(n int) int {
	switch {
	case n < MinQuestions:
		return MinQuestions
	case n > MaxQuestions:
		return MaxQuestions
	default:
		return n
	}
}

// CacheKey identifies a generated quiz. The seed is deliberately not part of it,
// so identical parameters hit the same entry until it expires.
func CacheKey(topic string, count int, level Level) string {
	return strings.ToLower(topic) + "_" + strconv.Itoa(count) + "_" + strings.ToLower(string(level))
}
