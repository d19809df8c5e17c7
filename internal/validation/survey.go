package validation

import (
	"fmt"

	"github.com/rendis/interact/pkg/schema"
)

// ValidateSurvey runs the full validation pipeline for a survey configuration.
func ValidateSurvey(cfg *schema.SurveyConfig) *schema.ValidationResult {
	if cfg == nil {
		r := &schema.ValidationResult{}
		r.AddError("/", schema.ErrCodeValidation, "survey configuration is nil")
		return r
	}

	schemas, err := loadSchemas()
	if err != nil {
		r := &schema.ValidationResult{}
		r.AddError("/", schema.ErrCodeValidation, "schema compilation failed: "+err.Error())
		return r
	}

	result := validateStructural(schemas.survey, cfg)
	if !result.Valid() {
		return result
	}

	result.Merge(validateBase(&cfg.ElementConfig))
	result.Merge(validateSurveySemantic(cfg))
	return result
}

func validateSurveySemantic(cfg *schema.SurveyConfig) *schema.ValidationResult {
	result := &schema.ValidationResult{}

	questionIDs := make(map[string]bool, len(cfg.Questions))
	npsCount := 0
	for _, q := range cfg.Questions {
		questionIDs[q.ID] = true
		if q.Type == schema.SurveyQuestionNPS {
			npsCount++
		}
	}

	if npsCount > 1 {
		result.AddWarning("questions", schema.ErrCodeValidation,
			fmt.Sprintf("%d nps questions declared; only the first answered one is classified", npsCount))
	}

	for i := range cfg.Questions {
		q := &cfg.Questions[i]
		path := fmt.Sprintf("questions[%d]", i)

		switch q.Type {
		case schema.SurveyQuestionSingleChoice, schema.SurveyQuestionMultipleChoice:
			if len(q.Options) < 2 {
				result.AddError(path+".options", schema.ErrCodeValidation,
					fmt.Sprintf("%s question needs at least 2 options (has %d)", q.Type, len(q.Options)))
			}
		}

		if q.Logic != nil {
			validateLogic(q.Logic, path+".logic", questionIDs, result)
		}
	}

	return result
}

// validateLogic checks that conditional rules reference existing questions
// and that skip_to rules declare a resolvable target.
func validateLogic(logic *schema.ConditionalLogic, path string, questionIDs map[string]bool, result *schema.ValidationResult) {
	for j, cond := range logic.Conditions {
		if !questionIDs[cond.QuestionID] {
			result.AddError(fmt.Sprintf("%s.conditions[%d].question_id", path, j),
				schema.ErrCodeValidation,
				fmt.Sprintf("references non-existent question %q", cond.QuestionID))
		}
	}

	if logic.Action == schema.LogicSkipTo {
		if logic.SkipTo == "" {
			result.AddError(path+".skip_to", schema.ErrCodeValidation,
				"skip_to action requires a target question id")
		} else if !questionIDs[logic.SkipTo] {
			result.AddError(path+".skip_to", schema.ErrCodeValidation,
				fmt.Sprintf("references non-existent question %q", logic.SkipTo))
		}
	}
}
