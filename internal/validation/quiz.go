package validation

import (
	"fmt"
	"sort"

	"github.com/rendis/interact/pkg/schema"
)

// ValidateQuiz runs the full validation pipeline for a quiz configuration.
// Structural errors short-circuit: semantic stages assume a shaped config.
func ValidateQuiz(cfg *schema.QuizConfig) *schema.ValidationResult {
	if cfg == nil {
		r := &schema.ValidationResult{}
		r.AddError("/", schema.ErrCodeValidation, "quiz configuration is nil")
		return r
	}

	schemas, err := loadSchemas()
	if err != nil {
		r := &schema.ValidationResult{}
		r.AddError("/", schema.ErrCodeValidation, "schema compilation failed: "+err.Error())
		return r
	}

	result := validateStructural(schemas.quiz, cfg)
	if !result.Valid() {
		return result
	}

	result.Merge(validateBase(&cfg.ElementConfig))
	result.Merge(validateQuizSemantic(cfg))
	return result
}

func validateQuizSemantic(cfg *schema.QuizConfig) *schema.ValidationResult {
	result := &schema.ValidationResult{}

	questionIDs := make(map[string]bool, len(cfg.Questions))
	for _, q := range cfg.Questions {
		questionIDs[q.ID] = true
	}

	for i := range cfg.Questions {
		validateQuizQuestion(&cfg.Questions[i], fmt.Sprintf("questions[%d]", i), questionIDs, result)
	}

	validateScoreRanges(cfg.Results, result)

	return result
}

func validateQuizQuestion(q *schema.QuizQuestion, path string, questionIDs map[string]bool, result *schema.ValidationResult) {
	switch q.Type {
	case schema.QuizQuestionSingleChoice, schema.QuizQuestionMultipleChoice, schema.QuizQuestionImageChoice:
		if len(q.Options) < 2 {
			result.AddError(path+".options", schema.ErrCodeValidation,
				fmt.Sprintf("%s question needs at least 2 options (has %d)", q.Type, len(q.Options)))
		}
	case schema.QuizQuestionTrueFalse:
		if len(q.Options) != 2 {
			result.AddError(path+".options", schema.ErrCodeValidation,
				fmt.Sprintf("true/false question needs exactly 2 options (has %d)", len(q.Options)))
		}
	case schema.QuizQuestionRating:
		if len(q.Options) == 0 {
			result.AddError(path+".options", schema.ErrCodeValidation,
				"rating question needs at least one option defining the scale")
		}
	}

	// Branch targets must resolve to existing questions.
	for j, opt := range q.Options {
		if opt.NextQuestionID != "" && !questionIDs[opt.NextQuestionID] {
			result.AddError(fmt.Sprintf("%s.options[%d].next_question_id", path, j),
				schema.ErrCodeValidation,
				fmt.Sprintf("references non-existent question %q", opt.NextQuestionID))
		}
	}
}

// validateScoreRanges warns about gaps and overlaps between result ranges.
// Gaps are warnings, not errors: the engine now fails a submission landing
// in one, so authors should know, but publication is not blocked.
func validateScoreRanges(results []schema.QuizResult, result *schema.ValidationResult) {
	for i, r := range results {
		if r.MinScore > r.MaxScore {
			result.AddError(fmt.Sprintf("results[%d]", i), schema.ErrCodeValidation,
				fmt.Sprintf("min_score (%v) exceeds max_score (%v)", r.MinScore, r.MaxScore))
		}
	}

	if len(results) < 2 {
		return
	}

	ordered := make([]schema.QuizResult, len(results))
	copy(ordered, results)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].MinScore < ordered[j].MinScore })

	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1], ordered[i]
		if cur.MinScore > prev.MaxScore+1 {
			result.AddWarning("results", schema.ErrCodeValidation,
				fmt.Sprintf("score ranges leave a gap between %v and %v; submissions scoring there will not match any result",
					prev.MaxScore, cur.MinScore))
		}
		if cur.MinScore <= prev.MaxScore {
			result.AddWarning("results", schema.ErrCodeValidation,
				fmt.Sprintf("score ranges overlap between %v and %v; the first declared result wins",
					cur.MinScore, prev.MaxScore))
		}
	}
}
