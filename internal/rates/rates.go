package rates

import "fmt"

// InvalidCategoryError reports a category key outside its table's closed set.
type InvalidCategoryError struct {
	Table string
	Key   string
}

func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("unknown %s category %q", e.Table, e.Key)
}

var difficultyMultipliers = map[string]float64{
	"beginner":     1.0,
	"intermediate": 1.3,
	"advanced":     1.6,
	"expert":       2.0,
}

var projectTypeMultipliers = map[string]float64{
	"accessories":    1.0,
	"clothing":       1.2,
	"home_decor":     1.1,
	"toys_amigurumi": 1.4,
	"blankets":       1.3,
	"bags_purses":    1.2,
}

var stitchComplexityMultipliers = map[string]float64{
	"basic":        1.0,
	"intermediate": 1.2,
	"advanced":     1.5,
	"intricate":    1.8,
}

var projectSizeMultipliers = map[string]float64{
	"small":       1.0,
	"medium":      1.2,
	"large":       1.4,
	"extra_large": 1.6,
}

var marketPositionMultipliers = map[string]float64{
	"budget":   1.2,
	"standard": 1.5,
	"premium":  2.0,
	"luxury":   2.5,
}

// Skill speed scales time inversely: larger values mean a slower crafter.
var skillSpeedMultipliers = map[string]float64{
	"beginner":     1.5,
	"intermediate": 1.0,
	"advanced":     0.8,
	"expert":       0.6,
}

// Difficulty returns the time multiplier for a difficulty level.
func Difficulty(key string) (float64, error) {
	return lookup("difficulty", difficultyMultipliers, key)
}

// ProjectType returns the time multiplier for a project type.
func ProjectType(key string) (float64, error) {
	return lookup("project type", projectTypeMultipliers, key)
}

// StitchComplexity returns the time multiplier for a stitch complexity tier.
func StitchComplexity(key string) (float64, error) {
	return lookup("stitch complexity", stitchComplexityMultipliers, key)
}

// ProjectSize returns the time multiplier for a project size.
func ProjectSize(key string) (float64, error) {
	return lookup("project size", projectSizeMultipliers, key)
}

// MarketPosition returns the price multiplier for a market segment.
func MarketPosition(key string) (float64, error) {
	return lookup("market position", marketPositionMultipliers, key)
}

// SkillSpeed returns the inverse speed multiplier for a crafter skill level.
func SkillSpeed(key string) (float64, error) {
	return lookup("skill level", skillSpeedMultipliers, key)
}

func lookup(table string, multipliers map[string]float64, key string) (float64, error) {
	factor, ok := multipliers[key]
	if !ok {
		return 0, &InvalidCategoryError{Table: table, Key: key}
	}
	return factor, nil
}
