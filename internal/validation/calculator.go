package validation

import (
	"fmt"

	"github.com/rendis/interact/internal/formula"
	"github.com/rendis/interact/pkg/schema"
)

// ValidateCalculator runs the full validation pipeline for a calculator
// configuration, including a dry-run of every formula against the declared
// input names so unknown-variable typos surface at authoring time.
func ValidateCalculator(cfg *schema.CalculatorConfig) *schema.ValidationResult {
	if cfg == nil {
		r := &schema.ValidationResult{}
		r.AddError("/", schema.ErrCodeValidation, "calculator configuration is nil")
		return r
	}

	schemas, err := loadSchemas()
	if err != nil {
		r := &schema.ValidationResult{}
		r.AddError("/", schema.ErrCodeValidation, "schema compilation failed: "+err.Error())
		return r
	}

	result := validateStructural(schemas.calculator, cfg)
	if !result.Valid() {
		return result
	}

	result.Merge(validateBase(&cfg.ElementConfig))
	result.Merge(validateCalculatorSemantic(cfg))
	return result
}

func validateCalculatorSemantic(cfg *schema.CalculatorConfig) *schema.ValidationResult {
	result := &schema.ValidationResult{}

	names := make([]string, 0, len(cfg.Inputs))
	seen := make(map[string]bool, len(cfg.Inputs))
	for i, in := range cfg.Inputs {
		path := fmt.Sprintf("inputs[%d]", i)

		if seen[in.Name] {
			result.AddError(path+".name", schema.ErrCodeValidation,
				fmt.Sprintf("duplicate input name %q", in.Name))
		}
		seen[in.Name] = true
		names = append(names, in.Name)

		if in.Min != nil && in.Max != nil && *in.Min > *in.Max {
			result.AddError(path, schema.ErrCodeValidation,
				fmt.Sprintf("min (%v) exceeds max (%v)", *in.Min, *in.Max))
		}

		switch in.Type {
		case schema.CalculatorInputSelect, schema.CalculatorInputRadio:
			if len(in.Options) < 2 {
				result.AddError(path+".options", schema.ErrCodeValidation,
					fmt.Sprintf("%s input needs at least 2 options (has %d)", in.Type, len(in.Options)))
			}
		}

		if in.Default != nil {
			if in.Min != nil && *in.Default < *in.Min {
				result.AddWarning(path+".default", schema.ErrCodeValidation,
					fmt.Sprintf("default (%v) is below min (%v)", *in.Default, *in.Min))
			}
			if in.Max != nil && *in.Default > *in.Max {
				result.AddWarning(path+".default", schema.ErrCodeValidation,
					fmt.Sprintf("default (%v) is above max (%v)", *in.Default, *in.Max))
			}
		}
	}

	// Dry-run every formula against the declared input names.
	for i, out := range cfg.Outputs {
		if err := formula.Validate(out.Formula, names); err != nil {
			result.AddError(fmt.Sprintf("outputs[%d].formula", i),
				schema.ErrCodeValidation, err.Error())
		}
	}
	for i, item := range cfg.Breakdown {
		if err := formula.Validate(item.Formula, names); err != nil {
			result.AddError(fmt.Sprintf("breakdown[%d].formula", i),
				schema.ErrCodeValidation, err.Error())
		}
	}

	return result
}
