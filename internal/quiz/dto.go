package quiz

import (
	"strconv"
	"strings"
)

const maxTopicLength = 200

type GenerateQuizRequest struct {
	Topic             string `json:"topic"`
	NumberOfQuestions *int   `json:"numberOfQuestions,omitempty"`
	ManualDifficulty  string `json:"manualDifficulty,omitempty"`
}

type GenerateQuizResponse struct {
	Questions             []Question `json:"questions"`
	Difficulty            Level      `json:"difficulty"`
	DifficultyDescription string     `json:"difficultyDescription"`
	EducationLevel        string     `json:"educationLevel,omitempty"`
	CacheKey              string     `json:"cacheKey"`
	Cached                bool       `json:"cached"`
	SessionToken          string     `json:"sessionToken,omitempty"`
}

type SubmitQuizRequest struct {
	UserAnswers       map[string]string `json:"userAnswers"`
	Topic             string            `json:"topic"`
	NumberOfQuestions *int              `json:"numberOfQuestions,omitempty"`
	ManualDifficulty  string            `json:"manualDifficulty,omitempty"`
	SessionToken      string            `json:"sessionToken,omitempty"`
}

type SubmitQuizResponse struct {
	Score          int  `json:"score"`
	TotalQuestions int  `json:"totalQuestions"`
	Percentage     int  `json:"percentage"`
	ExpEarned      int  `json:"expEarned"`
	ActivitySynced bool `json:"activitySynced"`
}

func normalizeTopic(topic string) (string, error) {
	t := strings.TrimSpace(topic)
	if t == "" || len([]rune(t)) > maxTopicLength {
		return "", ErrInvalidTopic
	}
	return t, nil
}

// answersByIndex converts JSON object keys to question indices. Only canonical
// decimal keys are accepted so two keys can never name the same question.
func answersByIndex(raw map[string]string) (map[int]string, error) {
	if raw == nil {
		return nil, ErrInvalidAnswers
	}
	out := make(map[int]string, len(raw))
	for k, v := range raw {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 || strconv.Itoa(i) != k {
			return nil, ErrInvalidAnswers
		}
		out[i] = v
	}
	return out, nil
}
