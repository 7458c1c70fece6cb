package timeline

import (
	"math"
	"time"

	"github.com/Scopexx0/CrochetFlow/internal/rates"
)

const (
	defaultStitchesPerMinute = 10
	defaultHoursPerDay       = 1
	defaultDaysPerWeek       = 5
)

// Request carries a stitch count, the crafter's working pace and schedule.
type Request struct {
	ProjectType       string  `json:"project_type"`
	ProjectSize       string  `json:"project_size"`
	DifficultyLevel   string  `json:"difficulty_level"`
	StitchComplexity  string  `json:"stitch_complexity"`
	SkillLevel        string  `json:"skill_level"`
	EstimatedStitches float64 `json:"estimated_stitches"`
	StitchesPerMinute float64 `json:"stitches_per_minute"`
	HoursPerDay       float64 `json:"hours_per_day"`
	DaysPerWeek       float64 `json:"days_per_week"`
	IncludeBreaks     bool    `json:"include_breaks"`
	BreakPercentage   float64 `json:"break_percentage"`
}

// Result is the completion timeline derived from a request.
type Result struct {
	TotalStitches     float64 `json:"total_stitches"`
	BaseTimeHours     float64 `json:"base_time_hours"`
	AdjustedTimeHours float64 `json:"adjusted_time_hours"`
	DailyProgress     float64 `json:"daily_progress"`
	EstimatedDays     int     `json:"estimated_days"`
	EstimatedWeeks    float64 `json:"estimated_weeks"`
	CompletionDate    string  `json:"completion_date"`
}

// withDefaults guards the divisors of the timeline math. DaysPerWeek is
// normalized too even though no formula reads it: it belongs to the weekly
// schedule inputs and is echoed back in history snapshots.
func (req Request) withDefaults() Request {
	if req.StitchesPerMinute <= 0 {
		req.StitchesPerMinute = defaultStitchesPerMinute
	}
	if req.HoursPerDay <= 0 {
		req.HoursPerDay = defaultHoursPerDay
	}
	if req.DaysPerWeek <= 0 {
		req.DaysPerWeek = defaultDaysPerWeek
	}
	return req
}

// Calculate turns a time request into a completion timeline. The reference
// day is passed in by the caller so results are reproducible. It fails only
// when a category key is outside its table.
func Calculate(req Request, today time.Time) (Result, error) {
	difficulty, err := rates.Difficulty(req.DifficultyLevel)
	if err != nil {
		return Result{}, err
	}
	projectType, err := rates.ProjectType(req.ProjectType)
	if err != nil {
		return Result{}, err
	}
	stitch, err := rates.StitchComplexity(req.StitchComplexity)
	if err != nil {
		return Result{}, err
	}
	size, err := rates.ProjectSize(req.ProjectSize)
	if err != nil {
		return Result{}, err
	}
	skill, err := rates.SkillSpeed(req.SkillLevel)
	if err != nil {
		return Result{}, err
	}

	req = req.withDefaults()

	breakFraction := 0.0
	if req.IncludeBreaks {
		breakFraction = req.BreakPercentage / 100
	}

	stitches := req.EstimatedStitches
	baseTimeHours := stitches / req.StitchesPerMinute / 60

	complexityFactor := difficulty * projectType * stitch * size
	adjustedTimeHours := baseTimeHours * complexityFactor * skill * (1 + breakFraction)

	// Even a zero-stitch project occupies at least one calendar day.
	estimatedDays := int(math.Ceil(adjustedTimeHours / req.HoursPerDay))
	if estimatedDays < 1 {
		estimatedDays = 1
	}

	return Result{
		TotalStitches:     stitches,
		BaseTimeHours:     baseTimeHours,
		AdjustedTimeHours: adjustedTimeHours,
		DailyProgress:     math.Min(stitches, stitches/float64(estimatedDays)),
		EstimatedDays:     estimatedDays,
		EstimatedWeeks:    float64(estimatedDays) / 7,
		CompletionDate:    today.AddDate(0, 0, estimatedDays).Format("2006-01-02"),
	}, nil
}
