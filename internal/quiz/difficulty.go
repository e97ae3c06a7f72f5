package quiz

import "github.com/saulo-duarte/learnpath-lambda/internal/user"

type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

// Accepted values for an explicit difficulty override.
const (
	ManualEasy         = "Easy"
	ManualIntermediate = "Intermediate"
	ManualAdvanced     = "Advanced"
)

var levelDescriptions = map[Level]string{
	LevelBeginner:     "foundational concepts and basic principles",
	LevelIntermediate: "intermediate concepts with practical applications",
	LevelAdvanced:     "advanced concepts and complex problem-solving",
}

var manualLevels = map[string]Level{
	ManualEasy:         LevelBeginner,
	ManualIntermediate: LevelIntermediate,
	ManualAdvanced:     LevelAdvanced,
}

var educationLevels = map[string]Level{
	user.EducationHighSchool:    LevelBeginner,
	user.EducationUndergraduate: LevelIntermediate,
	user.EducationGraduate:      LevelIntermediate,
	user.EducationProfessional:  LevelAdvanced,
}

type Difficulty struct {
	Level       Level
	Description string

	// AutoResolved is true when the education level, not an override, picked the level.
	AutoResolved bool
}

// ResolveDifficulty applies a valid manual override, otherwise maps the
// learner's education level, defaulting to Intermediate.
func ResolveDifficulty(manual, educationLevel string) Difficulty {
	if level, ok := manualLevels[manual]; ok {
		return Difficulty{Level: level, Description: levelDescriptions[level]}
	}

	level, ok := educationLevels[educationLevel]
	if !ok {
		level = LevelIntermediate
	}
	return Difficulty{Level: level, Description: levelDescriptions[level], AutoResolved: true}
}
