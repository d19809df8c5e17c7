package element

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/rendis/interact/internal/formula"
	"github.com/rendis/interact/internal/validation"
	"github.com/rendis/interact/pkg/schema"
)

// CalculatorEngine evaluates authored formulas over visitor-supplied inputs
// and formats the results for display.
type CalculatorEngine struct {
	base
	cfg schema.CalculatorConfig
}

// NewCalculatorEngine constructs a calculator engine over cfg.
func NewCalculatorEngine(cfg schema.CalculatorConfig, opts ...Option) *CalculatorEngine {
	e := &CalculatorEngine{cfg: cfg}
	e.base = newBase(&e.cfg.ElementConfig, opts)
	return e
}

func (e *CalculatorEngine) Type() schema.ElementType { return schema.ElementTypeCalculator }

// Config returns the current configuration.
func (e *CalculatorEngine) Config() schema.CalculatorConfig { return e.cfg }

// UpdateConfig replaces the configuration and stamps UpdatedAt.
func (e *CalculatorEngine) UpdateConfig(cfg schema.CalculatorConfig) {
	e.cfg = cfg
	e.touch()
}

// ValidateConfig runs the calculator validation pipeline, including the
// formula dry-run against declared input names.
func (e *CalculatorEngine) ValidateConfig() *schema.ValidationResult {
	return validation.ValidateCalculator(&e.cfg)
}

// InitialState seeds every declared input with its default (or zero).
func (e *CalculatorEngine) InitialState() schema.CalculatorState {
	values := make(map[string]float64, len(e.cfg.Inputs))
	for _, in := range e.cfg.Inputs {
		if in.Default != nil {
			values[in.Name] = *in.Default
		} else {
			values[in.Name] = 0
		}
	}
	return schema.CalculatorState{InputValues: values}
}

// ProcessResponse validates, normalizes, evaluates, and formats a full
// submission. Input violations are collected across all inputs before
// failing; a single combined INPUT_ERROR covers them.
func (e *CalculatorEngine) ProcessResponse(resp schema.CalculatorResponse) schema.ProcessResult[schema.CalculationResult] {
	if issues := e.validateInputs(resp.InputValues); len(issues) > 0 {
		return schema.Fail[schema.CalculationResult](
			schema.NewError(schema.ErrCodeInput, strings.Join(issues, "; ")))
	}

	vars := e.normalize(resp.InputValues)

	result, err := e.compute(vars)
	if err != nil {
		e.logger.WarnContext(e.logCtx(resp.VisitorID, resp.SessionID),
			"calculation failed", "error", err)
		return schema.Fail[schema.CalculationResult](err)
	}

	return schema.Ok(*result).WithMetadata(map[string]any{
		"inputs":  len(vars),
		"outputs": len(result.Outputs),
	})
}

// Recalculate is the real-time entry point: normalize, evaluate, format,
// and swallow every failure into nil. Partial or invalid as-you-type states
// are expected here, not errors.
func (e *CalculatorEngine) Recalculate(inputValues map[string]any) *schema.CalculationResult {
	vars := e.normalize(inputValues)
	result, err := e.compute(vars)
	if err != nil {
		return nil
	}
	return result
}

// validateInputs collects all violations without short-circuiting.
func (e *CalculatorEngine) validateInputs(values map[string]any) []string {
	var issues []string

	for _, in := range e.cfg.Inputs {
		raw, present := values[in.Name]

		if !present || raw == nil || raw == "" {
			if in.Required {
				issues = append(issues, fmt.Sprintf("%s is required", in.Label))
			}
			continue
		}

		v, ok := coerceFloat(raw)
		if !ok {
			issues = append(issues, fmt.Sprintf("%s must be a number", in.Label))
			continue
		}

		if in.Min != nil && v < *in.Min {
			issues = append(issues, fmt.Sprintf("%s must be at least %v", in.Label, *in.Min))
		}
		if in.Max != nil && v > *in.Max {
			issues = append(issues, fmt.Sprintf("%s must be at most %v", in.Label, *in.Max))
		}
	}

	return issues
}

// normalize maps every declared input to a number, substituting the
// declared default (or zero) for absent or non-numeric values.
func (e *CalculatorEngine) normalize(values map[string]any) map[string]float64 {
	vars := make(map[string]float64, len(e.cfg.Inputs))
	for _, in := range e.cfg.Inputs {
		fallback := 0.0
		if in.Default != nil {
			fallback = *in.Default
		}

		v, ok := coerceFloat(values[in.Name])
		if !ok {
			v = fallback
		}
		vars[in.Name] = v
	}
	return vars
}

// compute evaluates every output (and breakdown) formula and assembles the
// result. The summary and total prefer the highlighted output, else the
// first one.
func (e *CalculatorEngine) compute(vars map[string]float64) (*schema.CalculationResult, error) {
	result := &schema.CalculationResult{}

	for _, out := range e.cfg.Outputs {
		raw, err := formula.Evaluate(out.Formula, vars)
		if err != nil {
			return nil, err
		}
		result.Outputs = append(result.Outputs, schema.OutputValue{
			ID:             out.ID,
			Label:          out.Label,
			RawValue:       raw,
			FormattedValue: out.Prefix + e.format(raw, out.Format, out.Decimals) + out.Suffix,
			Highlight:      out.Highlight,
		})
	}

	if e.cfg.Settings.ShowBreakdown {
		for _, item := range e.cfg.Breakdown {
			raw, err := formula.Evaluate(item.Formula, vars)
			if err != nil {
				return nil, err
			}
			result.Breakdown = append(result.Breakdown, schema.BreakdownValue{
				Label:          item.Label,
				RawValue:       raw,
				FormattedValue: e.format(raw, item.Format, 2),
			})
		}
	}

	if primary := e.primaryOutput(result.Outputs); primary != nil {
		result.Summary = fmt.Sprintf("%s: %s", primary.Label, primary.FormattedValue)
		result.TotalValue = primary.RawValue
	}

	return result, nil
}

// primaryOutput prefers the output marked highlight, else the first.
func (e *CalculatorEngine) primaryOutput(outputs []schema.OutputValue) *schema.OutputValue {
	for i := range outputs {
		if outputs[i].Highlight {
			return &outputs[i]
		}
	}
	if len(outputs) > 0 {
		return &outputs[0]
	}
	return nil
}

// format renders a raw value per the declared output format, using the
// configured locale for grouping and currency symbols.
func (e *CalculatorEngine) format(v float64, f schema.OutputFormat, decimals int) string {
	p := message.NewPrinter(e.locale())

	switch f {
	case schema.FormatCurrency:
		unit, err := currency.ParseISO(e.currencyCode())
		if err != nil {
			unit = currency.USD
		}
		return p.Sprintf("%v%v", currency.Symbol(unit),
			number.Decimal(v, number.MinFractionDigits(decimals), number.MaxFractionDigits(decimals)))

	case schema.FormatPercentage:
		return p.Sprintf("%v",
			number.Decimal(v*100, number.MinFractionDigits(decimals), number.MaxFractionDigits(decimals))) + "%"

	default:
		return p.Sprintf("%v",
			number.Decimal(v, number.MinFractionDigits(decimals), number.MaxFractionDigits(decimals)))
	}
}

func (e *CalculatorEngine) locale() language.Tag {
	if e.cfg.Settings.Locale == "" {
		return language.AmericanEnglish
	}
	tag, err := language.Parse(e.cfg.Settings.Locale)
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}

func (e *CalculatorEngine) currencyCode() string {
	if e.cfg.Settings.Currency == "" {
		return "USD"
	}
	return e.cfg.Settings.Currency
}

var _ Engine[schema.CalculatorConfig, schema.CalculatorResponse, schema.CalculationResult, schema.CalculatorState] = (*CalculatorEngine)(nil)
