package quiz

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const questionSchemaJSON = `{
  "type": "object",
  "required": ["questions"],
  "properties": {
    "questions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["question", "options", "correctAnswer"],
        "properties": {
          "question": {"type": "string", "minLength": 1},
          "options": {
            "type": "array",
            "minItems": 4,
            "maxItems": 4,
            "uniqueItems": true,
            "items": {"type": "string", "minLength": 1}
          },
          "correctAnswer": {"type": "string", "minLength": 1},
          "difficulty": {"type": "string"}
        }
      }
    }
  }
}`

const questionSchemaURL = "schema://quiz-questions.json"

var questionSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	var doc any
	if err := json.Unmarshal([]byte(questionSchemaJSON), &doc); err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(questionSchemaURL, doc); err != nil {
		return nil, err
	}
	return c.Compile(questionSchemaURL)
})

var fencePattern = regexp.MustCompile("(?m)^\\s*```[a-zA-Z]*\\s*$")

// stripFences removes markdown code fences and any prose around the outermost JSON object.
func stripFences(raw string) string {
	s := fencePattern.ReplaceAllString(raw, "")
	s = strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "`"))

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

// ParseQuestions validates model output and returns at most count questions.
// A single invalid question rejects the whole batch. Missing difficulty labels
// are filled with level.
func ParseQuestions(raw string, count int, level Level) ([]Question, error) {
	cleaned := stripFences(raw)

	var doc any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, &GenerationError{Reason: ReasonMalformed, Detail: err.Error(), Raw: raw, Err: err}
	}

	schema, err := questionSchema()
	if err != nil {
		return nil, fmt.Errorf("compile question schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, &GenerationError{Reason: ReasonInvalidStructure, Detail: firstLine(err.Error()), Raw: raw, Err: err}
	}

	var payload struct {
		Questions []Question `json:"questions"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, &GenerationError{Reason: ReasonMalformed, Detail: err.Error(), Raw: raw, Err: err}
	}

	for i := range payload.Questions {
		q := &payload.Questions[i]
		if !containsString(q.Options, q.CorrectAnswer) {
			return nil, &GenerationError{
				Reason: ReasonInvalidStructure,
				Detail: fmt.Sprintf("question %d: correctAnswer is not one of its options", i),
				Raw:    raw,
			}
		}
		if strings.TrimSpace(q.Difficulty) == "" {
			q.Difficulty = string(level)
		}
	}

	questions := payload.Questions
	if count > 0 && len(questions) > count {
		questions = questions[:count]
	}
	return questions, nil
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
