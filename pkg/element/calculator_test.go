package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendis/interact/pkg/schema"
)

func f64(v float64) *float64 { return &v }

func fixtureCalculator() schema.CalculatorConfig {
	return schema.CalculatorConfig{
		ElementConfig: schema.ElementConfig{
			ID:        "calc-1",
			Type:      schema.ElementTypeCalculator,
			WebsiteID: "site-1",
			Title:     "Savings estimator",
		},
		Inputs: []schema.CalculatorInput{
			{Name: "monthly_spend", Label: "Monthly spend", Type: schema.CalculatorInputNumber,
				Required: true, Min: f64(0), Max: f64(1000000)},
		},
		Outputs: []schema.CalculatorOutput{
			{ID: "annual_savings", Label: "Annual savings", Formula: "monthly_spend * 12 * 0.15",
				Format: schema.FormatCurrency, Decimals: 0, Highlight: true},
		},
	}
}

// --- Processing ---

func TestCalculator_CurrencyFormatting(t *testing.T) {
	e := NewCalculatorEngine(fixtureCalculator())
	res := e.ProcessResponse(schema.CalculatorResponse{
		InputValues: map[string]any{"monthly_spend": 2000.0},
	})
	require.True(t, res.Success, res.Error)
	require.Len(t, res.Data.Outputs, 1)

	out := res.Data.Outputs[0]
	assert.Equal(t, 3600.0, out.RawValue)
	assert.Equal(t, "$3,600", out.FormattedValue)
}

func TestCalculator_PercentageFormatting(t *testing.T) {
	cfg := fixtureCalculator()
	cfg.Outputs = []schema.CalculatorOutput{
		{ID: "rate", Label: "Savings rate", Formula: "0.155", Format: schema.FormatPercentage, Decimals: 1},
	}
	e := NewCalculatorEngine(cfg)
	res := e.ProcessResponse(schema.CalculatorResponse{
		InputValues: map[string]any{"monthly_spend": 1.0},
	})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "15.5%", res.Data.Outputs[0].FormattedValue)
}

func TestCalculator_NumberFormattingWithGrouping(t *testing.T) {
	cfg := fixtureCalculator()
	cfg.Outputs = []schema.CalculatorOutput{
		{ID: "total", Label: "Total", Formula: "monthly_spend * 12", Format: schema.FormatNumber, Decimals: 0},
	}
	e := NewCalculatorEngine(cfg)
	res := e.ProcessResponse(schema.CalculatorResponse{
		InputValues: map[string]any{"monthly_spend": 1000.0},
	})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "12,000", res.Data.Outputs[0].FormattedValue)
}

func TestCalculator_PrefixSuffixApplied(t *testing.T) {
	cfg := fixtureCalculator()
	cfg.Outputs = []schema.CalculatorOutput{
		{ID: "hours", Label: "Hours saved", Formula: "monthly_spend / 100",
			Format: schema.FormatNumber, Decimals: 0, Prefix: "~", Suffix: " hrs"},
	}
	e := NewCalculatorEngine(cfg)
	res := e.ProcessResponse(schema.CalculatorResponse{
		InputValues: map[string]any{"monthly_spend": 500.0},
	})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "~5 hrs", res.Data.Outputs[0].FormattedValue)
}

func TestCalculator_SummaryPrefersHighlightedOutput(t *testing.T) {
	cfg := fixtureCalculator()
	cfg.Outputs = []schema.CalculatorOutput{
		{ID: "first", Label: "First", Formula: "1", Format: schema.FormatNumber},
		{ID: "main", Label: "Main", Formula: "2", Format: schema.FormatNumber, Highlight: true},
	}
	e := NewCalculatorEngine(cfg)
	res := e.ProcessResponse(schema.CalculatorResponse{
		InputValues: map[string]any{"monthly_spend": 1.0},
	})
	require.True(t, res.Success, res.Error)
	assert.Contains(t, res.Data.Summary, "Main")
	assert.Equal(t, 2.0, res.Data.TotalValue)
}

func TestCalculator_BreakdownComputedWhenEnabled(t *testing.T) {
	cfg := fixtureCalculator()
	cfg.Settings.ShowBreakdown = true
	cfg.Breakdown = []schema.BreakdownItem{
		{Label: "Monthly", Formula: "monthly_spend * 0.15", Format: schema.FormatCurrency},
	}
	e := NewCalculatorEngine(cfg)
	res := e.ProcessResponse(schema.CalculatorResponse{
		InputValues: map[string]any{"monthly_spend": 2000.0},
	})
	require.True(t, res.Success, res.Error)
	require.Len(t, res.Data.Breakdown, 1)
	assert.Equal(t, 300.0, res.Data.Breakdown[0].RawValue)
}

// --- Input validation ---

func TestCalculator_CollectsAllInputViolations(t *testing.T) {
	cfg := fixtureCalculator()
	cfg.Inputs = append(cfg.Inputs, schema.CalculatorInput{
		Name: "headcount", Label: "Headcount", Type: schema.CalculatorInputNumber,
		Required: true, Min: f64(1),
	})
	cfg.Outputs[0].Formula = "monthly_spend + headcount"

	e := NewCalculatorEngine(cfg)
	res := e.ProcessResponse(schema.CalculatorResponse{
		InputValues: map[string]any{"monthly_spend": "not-a-number"},
	})
	require.False(t, res.Success)
	assert.Contains(t, res.Error, "Monthly spend must be a number")
	assert.Contains(t, res.Error, "Headcount is required")
}

func TestCalculator_BoundsEnforced(t *testing.T) {
	e := NewCalculatorEngine(fixtureCalculator())
	res := e.ProcessResponse(schema.CalculatorResponse{
		InputValues: map[string]any{"monthly_spend": -5.0},
	})
	require.False(t, res.Success)
	assert.Contains(t, res.Error, "at least")
}

func TestCalculator_NumericStringCoerced(t *testing.T) {
	e := NewCalculatorEngine(fixtureCalculator())
	res := e.ProcessResponse(schema.CalculatorResponse{
		InputValues: map[string]any{"monthly_spend": "2000"},
	})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 3600.0, res.Data.Outputs[0].RawValue)
}

func TestCalculator_AbsentOptionalInputUsesDefault(t *testing.T) {
	cfg := fixtureCalculator()
	cfg.Inputs[0].Required = false
	cfg.Inputs[0].Default = f64(1000)

	e := NewCalculatorEngine(cfg)
	res := e.ProcessResponse(schema.CalculatorResponse{InputValues: map[string]any{}})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 1800.0, res.Data.Outputs[0].RawValue)
}

// --- Real-time path ---

func TestCalculator_RecalculateReturnsNilOnFailure(t *testing.T) {
	cfg := fixtureCalculator()
	cfg.Outputs[0].Formula = "monthly_spend / divisor" // divisor undeclared
	e := NewCalculatorEngine(cfg)

	assert.Nil(t, e.Recalculate(map[string]any{"monthly_spend": 100.0}))
}

func TestCalculator_RecalculateIgnoresValidationErrors(t *testing.T) {
	// Required input absent: ProcessResponse fails, Recalculate still runs
	// against the default value.
	e := NewCalculatorEngine(fixtureCalculator())

	res := e.ProcessResponse(schema.CalculatorResponse{InputValues: map[string]any{}})
	assert.False(t, res.Success)

	live := e.Recalculate(map[string]any{})
	require.NotNil(t, live)
	assert.Equal(t, 0.0, live.Outputs[0].RawValue)
}

// --- State & validation ---

func TestCalculator_InitialStateSeedsDefaults(t *testing.T) {
	cfg := fixtureCalculator()
	cfg.Inputs[0].Default = f64(250)
	e := NewCalculatorEngine(cfg)

	state := e.InitialState()
	assert.Equal(t, 250.0, state.InputValues["monthly_spend"])
}

func TestCalculator_ValidateConfigHappyPath(t *testing.T) {
	e := NewCalculatorEngine(fixtureCalculator())
	result := e.ValidateConfig()
	assert.True(t, result.Valid(), result.Errors)
}

func TestCalculator_ValidateConfigCatchesFormulaTypo(t *testing.T) {
	cfg := fixtureCalculator()
	cfg.Outputs[0].Formula = "monthly_spned * 12"
	e := NewCalculatorEngine(cfg)

	result := e.ValidateConfig()
	require.False(t, result.Valid())
	assert.Contains(t, result.Errors[0].Message, "monthly_spned")
}

func TestCalculator_ValidateConfigRejectsDuplicateInputNames(t *testing.T) {
	cfg := fixtureCalculator()
	cfg.Inputs = append(cfg.Inputs, cfg.Inputs[0])
	e := NewCalculatorEngine(cfg)

	result := e.ValidateConfig()
	assert.False(t, result.Valid())
}
