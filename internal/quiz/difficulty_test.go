package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDifficulty(t *testing.T) {
	tests := []struct {
		name      string
		manual    string
		education string
		want      Level
		auto      bool
	}{
		{"manual easy", "Easy", "Professional", LevelBeginner, false},
		{"manual intermediate", "Intermediate", "High School", LevelIntermediate, false},
		{"manual advanced", "Advanced", "", LevelAdvanced, false},
		{"high school", "", "High School", LevelBeginner, true},
		{"undergraduate", "", "Undergraduate", LevelIntermediate, true},
		{"graduate", "", "Graduate", LevelIntermediate, true},
		{"professional", "", "Professional", LevelAdvanced, true},
		{"unknown education", "", "Kindergarten", LevelIntermediate, true},
		{"no inputs", "", "", LevelIntermediate, true},
		{"unknown manual falls through", "Expert", "Professional", LevelAdvanced, true},
		{"manual is case sensitive", "advanced", "High School", LevelBeginner, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ResolveDifficulty(tt.manual, tt.education)
			assert.Equal(t, tt.want, d.Level)
			assert.Equal(t, levelDescriptions[tt.want], d.Description)
			assert.Equal(t, tt.auto, d.AutoResolved)
		})
	}
}

func TestResolveDifficulty_Descriptions(t *testing.T) {
	assert.Equal(t, "advanced concepts and complex problem-solving", ResolveDifficulty("Advanced", "").Description)
	assert.Equal(t, "foundational concepts and basic principles", ResolveDifficulty("", "High School").Description)
	assert.Equal(t, "intermediate concepts with practical applications", ResolveDifficulty("", "").Description)
}
