package schema

// CalculatorInputType enumerates the supported input widgets.
type CalculatorInputType string

const (
	CalculatorInputNumber CalculatorInputType = "number"
	CalculatorInputSlider CalculatorInputType = "slider"
	CalculatorInputSelect CalculatorInputType = "select"
	CalculatorInputRadio  CalculatorInputType = "radio"
)

// OutputFormat selects how a computed value is rendered.
type OutputFormat string

const (
	FormatCurrency   OutputFormat = "currency"
	FormatPercentage OutputFormat = "percentage"
	FormatNumber     OutputFormat = "number"
)

// CalculatorConfig is the full configuration for a calculator element.
type CalculatorConfig struct {
	ElementConfig

	Inputs    []CalculatorInput  `json:"inputs"`
	Outputs   []CalculatorOutput `json:"outputs"`
	Breakdown []BreakdownItem    `json:"breakdown,omitempty"`
	Settings  CalculatorSettings `json:"settings"`
}

// CalculatorInput declares one named variable the visitor supplies.
// Name is the identifier formulas reference.
type CalculatorInput struct {
	Name     string              `json:"name"`
	Label    string              `json:"label"`
	Type     CalculatorInputType `json:"type"`
	Default  *float64            `json:"default,omitempty"`
	Min      *float64            `json:"min,omitempty"`
	Max      *float64            `json:"max,omitempty"`
	Step     *float64            `json:"step,omitempty"`
	Required bool                `json:"required"`

	// Options supplies the choices for select/radio inputs; each option's
	// Value is what formulas see when it is chosen.
	Options []InputOption `json:"options,omitempty"`
}

// InputOption is one choice for a select/radio calculator input.
type InputOption struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// CalculatorOutput declares one computed, formatted result.
type CalculatorOutput struct {
	ID        string       `json:"id"`
	Label     string       `json:"label"`
	Formula   string       `json:"formula"`
	Format    OutputFormat `json:"format"`
	Decimals  int          `json:"decimals"`
	Prefix    string       `json:"prefix,omitempty"`
	Suffix    string       `json:"suffix,omitempty"`
	Highlight bool         `json:"highlight,omitempty"`
}

// BreakdownItem is one line of the optional result breakdown.
type BreakdownItem struct {
	Label   string       `json:"label"`
	Formula string       `json:"formula"`
	Format  OutputFormat `json:"format"`
}

// CalculatorSettings holds calculator-level behavior flags.
type CalculatorSettings struct {
	ShowBreakdown bool   `json:"show_breakdown,omitempty"`
	RealTime      bool   `json:"real_time,omitempty"`
	Layout        string `json:"layout,omitempty"`
	Locale        string `json:"locale,omitempty"`   // BCP 47 tag, default en-US
	Currency      string `json:"currency,omitempty"` // ISO 4217 code, default USD
}

// CalculatorResponse is the caller-owned submission for a calculator.
// InputValues map input names to numbers (or numeric strings).
type CalculatorResponse struct {
	InputValues map[string]any `json:"input_values"`
	VisitorID   string         `json:"visitor_id,omitempty"`
	SessionID   string         `json:"session_id,omitempty"`
}

// OutputValue is one computed output with its formatted rendering.
type OutputValue struct {
	ID             string  `json:"id"`
	Label          string  `json:"label"`
	RawValue       float64 `json:"raw_value"`
	FormattedValue string  `json:"formatted_value"`
	Highlight      bool    `json:"highlight,omitempty"`
}

// BreakdownValue is one computed breakdown line.
type BreakdownValue struct {
	Label          string  `json:"label"`
	RawValue       float64 `json:"raw_value"`
	FormattedValue string  `json:"formatted_value"`
}

// CalculationResult is the outcome of a calculator submission.
type CalculationResult struct {
	Outputs    []OutputValue    `json:"outputs"`
	Breakdown  []BreakdownValue `json:"breakdown,omitempty"`
	Summary    string           `json:"summary"`
	TotalValue float64          `json:"total_value"`
}

// CalculatorState is the UI-facing state seeded by InitialState.
type CalculatorState struct {
	InputValues map[string]float64 `json:"input_values"` // defaults per input
}
