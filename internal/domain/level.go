package domain

// Level is a CEFR proficiency level code.
type Level string

// The closed CEFR level set. Classification results outside this set are
// rejected at the classifier boundary, never persisted.
const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
	LevelC2 Level = "C2"
)

// Levels returns all valid CEFR level codes in ascending order.
func Levels() []Level {
	return []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2}
}

// IsValidLevel checks if the given code is a valid CEFR level.
func IsValidLevel(level Level) bool {
	switch level {
	case LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2:
		return true
	default:
		return false
	}
}
