package pricing

import "github.com/Scopexx0/CrochetFlow/internal/rates"

// A custom pattern adds a flat 30% surcharge to the time estimate.
const customPatternMultiplier = 1.3

// Request carries the project attributes used to estimate cost and price.
// Numeric fields are already coerced by the caller; category fields must be
// keys of their multiplier tables.
type Request struct {
	YarnCost            float64 `json:"yarn_cost"`
	AdditionalMaterials float64 `json:"additional_materials"`
	EstimatedHours      float64 `json:"estimated_hours"`
	HourlyRate          float64 `json:"hourly_rate"`
	DifficultyLevel     string  `json:"difficulty_level"`
	ProjectType         string  `json:"project_type"`
	StitchComplexity    string  `json:"stitch_complexity"`
	ProjectSize         string  `json:"project_size"`
	MarketPosition      string  `json:"market_position"`
	CustomPattern       bool    `json:"custom_pattern"`
}

// Breakdown lists the effective multipliers behind a result. ComplexityMultiplier
// groups project type and stitch complexity into one reported figure; the cost
// formulas apply them separately.
type Breakdown struct {
	DifficultyMultiplier float64 `json:"difficulty_multiplier"`
	ComplexityMultiplier float64 `json:"complexity_multiplier"`
	SizeMultiplier       float64 `json:"size_multiplier"`
	MarketMultiplier     float64 `json:"market_multiplier"`
	PatternMultiplier    float64 `json:"pattern_multiplier"`
}

// Result groups the full pricing output: adjusted time, cost roll-up and the
// suggested resale price.
type Result struct {
	BaseHours      float64   `json:"base_hours"`
	AdjustedHours  float64   `json:"adjusted_hours"`
	MaterialCost   float64   `json:"material_cost"`
	LaborCost      float64   `json:"labor_cost"`
	TotalCost      float64   `json:"total_cost"`
	SuggestedPrice float64   `json:"suggested_price"`
	Breakdown      Breakdown `json:"breakdown"`
}

// Calculate turns a pricing request into a cost and price estimate. It fails
// only when a category key is outside its table.
func Calculate(req Request) (Result, error) {
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
	market, err := rates.MarketPosition(req.MarketPosition)
	if err != nil {
		return Result{}, err
	}

	pattern := 1.0
	if req.CustomPattern {
		pattern = customPatternMultiplier
	}

	timeMultiplier := difficulty * projectType * stitch * size * pattern
	adjustedHours := req.EstimatedHours * timeMultiplier

	materialCost := req.YarnCost + req.AdditionalMaterials
	laborCost := adjustedHours * req.HourlyRate
	totalCost := materialCost + laborCost

	// The market factor prices the finished piece; it never inflates the
	// time estimate.
	suggestedPrice := totalCost * market

	return Result{
		BaseHours:      req.EstimatedHours,
		AdjustedHours:  adjustedHours,
		MaterialCost:   materialCost,
		LaborCost:      laborCost,
		TotalCost:      totalCost,
		SuggestedPrice: suggestedPrice,
		Breakdown: Breakdown{
			DifficultyMultiplier: difficulty,
			ComplexityMultiplier: projectType * stitch,
			SizeMultiplier:       size,
			MarketMultiplier:     market,
			PatternMultiplier:    pattern,
		},
	}, nil
}
