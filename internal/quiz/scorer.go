package quiz

import "math"

type Result struct {
	RawScore       int
	TotalQuestions int
	Percentage     int
}

// Score counts exact, case-sensitive matches by question index. Answers for
// indices outside the quiz are ignored.
func Score(questions []Question, answers map[int]string) (Result, error) {
	total := len(questions)
	if total == 0 {
		return Result{}, ErrEmptyQuiz
	}

	raw := 0
	for i, q := range questions {
		if a, ok := answers[i]; ok && a == q.CorrectAnswer {
			raw++
		}
	}
	raw = min(max(raw, 0), total)

	return Result{
		RawScore:       raw,
		TotalQuestions: total,
		Percentage:     int(math.Round(float64(raw) / float64(total) * 100)),
	}, nil
}
