package quiz

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const systemPrompt = `You are an experienced educator who writes multiple-choice quizzes for learners.

Rules:
1. Every question has exactly 4 answer options and exactly one of them is correct.
2. The 4 options of a question must all be different.
3. "correctAnswer" must be copied character for character from one of the options.
4. Distractors must be plausible; do not make the correct option longer or more detailed than the others.
5. Never reveal the answer in the question text.

Output format:
Return only a JSON object, with no markdown, no code fences and no text before or after it:
{
  "questions": [
    {
      "question": "<question text>",
      "options": ["<option 1>", "<option 2>", "<option 3>", "<option 4>"],
      "correctAnswer": "<the correct option, verbatim>",
      "difficulty": "<Beginner | Intermediate | Advanced>"
    }
  ]
}`

// newSeed mixes the request parameters, the current time and a random suffix
// so repeated requests after expiry nudge the model toward a different quiz.
func newSeed(topic string, count int, now time.Time) string {
	slug := strings.Join(strings.Fields(strings.ToLower(topic)), "-")
	suffix := strconv.FormatUint(rand.Uint64N(1<<40), 36)
	return fmt.Sprintf("%s-%d-%d-%s", slug, count, now.UnixMilli(), suffix)
}

func BuildUserPrompt(topic string, d Difficulty, count int, seed string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a quiz about %q.\n", topic)
	fmt.Fprintf(&b, "Target difficulty: %s, focusing on %s.\n", d.Level, d.Description)
	fmt.Fprintf(&b, "Write exactly %d questions and label each with difficulty %q.\n", count, d.Level)
	fmt.Fprintf(&b, "Variation seed: %s. Use it to choose different angles and examples than you would by default.\n", seed)
	b.WriteString("Respond with the JSON object only. Do not wrap it in ``` fences.")
	return b.String()
}
