package element

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rendis/interact/internal/validation"
	"github.com/rendis/interact/pkg/schema"
)

// SurveyEngine evaluates conditional show/hide/skip logic over a question
// graph, classifies NPS answers, and aggregates satisfaction.
type SurveyEngine struct {
	base
	cfg schema.SurveyConfig
}

// NewSurveyEngine constructs a survey engine over cfg.
func NewSurveyEngine(cfg schema.SurveyConfig, opts ...Option) *SurveyEngine {
	e := &SurveyEngine{cfg: cfg}
	e.base = newBase(&e.cfg.ElementConfig, opts)
	return e
}

func (e *SurveyEngine) Type() schema.ElementType { return schema.ElementTypeSurvey }

// Config returns the current configuration.
func (e *SurveyEngine) Config() schema.SurveyConfig { return e.cfg }

// UpdateConfig replaces the configuration and stamps UpdatedAt.
func (e *SurveyEngine) UpdateConfig(cfg schema.SurveyConfig) {
	e.cfg = cfg
	e.touch()
}

// ValidateConfig runs the survey validation pipeline.
func (e *SurveyEngine) ValidateConfig() *schema.ValidationResult {
	return validation.ValidateSurvey(&e.cfg)
}

// InitialState seeds the UI with the declared (or shuffled) order and the
// visibility set for an empty answer map.
func (e *SurveyEngine) InitialState() schema.SurveyState {
	order := e.order()
	if e.cfg.Settings.Randomize {
		shuffle(e.rng, order)
	}

	visible := e.VisibleQuestions(nil)
	current := ""
	for _, id := range order {
		if containsID(visible, id) {
			current = id
			break
		}
	}

	return schema.SurveyState{
		CurrentQuestionID: current,
		Order:             order,
		Visible:           visible,
		Answers:           map[string]any{},
	}
}

// VisibleQuestions recomputes the visible set from the full answer map.
// Recomputing from scratch after every answer keeps visibility consistent
// regardless of answer order. Questions without logic are always visible;
// hide-rules start visible, show-rules start hidden.
func (e *SurveyEngine) VisibleQuestions(answers map[string]any) []string {
	visible := make([]string, 0, len(e.cfg.Questions))

	for i := range e.cfg.Questions {
		q := &e.cfg.Questions[i]

		if q.Logic == nil || q.Logic.Action == schema.LogicSkipTo {
			visible = append(visible, q.ID)
			continue
		}

		met := e.conditionsMet(q.Logic, answers)
		switch q.Logic.Action {
		case schema.LogicShow:
			if met {
				visible = append(visible, q.ID)
			}
		case schema.LogicHide:
			if !met {
				visible = append(visible, q.ID)
			}
		}
	}

	return visible
}

// NextQuestion resolves navigation after answering currentID. A skip_to rule
// on the current question whose conditions pass against the just-updated
// answers jumps straight to its target; otherwise the next currently-visible
// question in the state's (possibly shuffled) order is used. ok=false means
// the survey is finished.
func (e *SurveyEngine) NextQuestion(state schema.SurveyState, currentID string, answers map[string]any) (string, bool) {
	if q := e.question(currentID); q != nil &&
		q.Logic != nil && q.Logic.Action == schema.LogicSkipTo &&
		e.conditionsMet(q.Logic, answers) {
		return q.Logic.SkipTo, true
	}

	visible := e.VisibleQuestions(answers)
	order := state.Order
	if len(order) == 0 {
		order = e.order()
	}
	past := false
	for _, id := range order {
		if id == currentID {
			past = true
			continue
		}
		if past && containsID(visible, id) {
			return id, true
		}
	}
	return "", false
}

// conditionsMet evaluates a rule's condition set under its combinator.
func (e *SurveyEngine) conditionsMet(logic *schema.ConditionalLogic, answers map[string]any) bool {
	if len(logic.Conditions) == 0 {
		return false
	}

	anyMet, allMet := false, true
	for _, cond := range logic.Conditions {
		met := evalCondition(cond, answers[cond.QuestionID])
		anyMet = anyMet || met
		allMet = allMet && met
	}

	if logic.Combinator == schema.CombinatorOr {
		return anyMet
	}
	return allMet
}

// evalCondition compares one answer against the rule's literal value.
// Array-valued answers use containment semantics for equals/contains.
func evalCondition(cond schema.Condition, answer any) bool {
	if answer == nil {
		return false
	}

	switch cond.Operator {
	case schema.OpEquals:
		if items := toStringSlice(answer); len(items) > 0 {
			if _, isString := answer.(string); !isString {
				return containsID(items, fmt.Sprint(cond.Value))
			}
		}
		return looseEqual(answer, cond.Value)

	case schema.OpNotEquals:
		return !evalCondition(schema.Condition{Operator: schema.OpEquals, Value: cond.Value}, answer)

	case schema.OpContains:
		if items := toStringSlice(answer); len(items) > 0 {
			if _, isString := answer.(string); !isString {
				return containsID(items, fmt.Sprint(cond.Value))
			}
		}
		if s, ok := answer.(string); ok {
			return strings.Contains(strings.ToLower(s), strings.ToLower(fmt.Sprint(cond.Value)))
		}
		return false

	case schema.OpGreaterThan:
		a, okA := coerceFloat(answer)
		b, okB := coerceFloat(cond.Value)
		return okA && okB && a > b

	case schema.OpLessThan:
		a, okA := coerceFloat(answer)
		b, okB := coerceFloat(cond.Value)
		return okA && okB && a < b
	}

	return false
}

// looseEqual compares numerically when both sides coerce, else textually.
func looseEqual(a, b any) bool {
	fa, okA := coerceFloat(a)
	fb, okB := coerceFloat(b)
	if okA && okB {
		return fa == fb
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// ClassifyNPS bands a 0-10 score: promoter >= 9, passive 7-8, detractor <= 6.
func ClassifyNPS(score int) schema.NPSCategory {
	switch {
	case score >= 9:
		return schema.NPSPromoter
	case score >= 7:
		return schema.NPSPassive
	default:
		return schema.NPSDetractor
	}
}

// nps classifies the first answered nps-type question. The feedback
// follow-up is the text question whose logic references the nps question.
func (e *SurveyEngine) nps(answers map[string]any) *schema.NPSResult {
	for i := range e.cfg.Questions {
		q := &e.cfg.Questions[i]
		if q.Type != schema.SurveyQuestionNPS {
			continue
		}
		raw, ok := coerceFloat(answers[q.ID])
		if !ok {
			continue
		}

		result := &schema.NPSResult{
			Score:    int(raw),
			Category: ClassifyNPS(int(raw)),
		}
		if fb := e.npsFeedback(q.ID, answers); fb != "" {
			result.Feedback = fb
		}
		return result
	}
	return nil
}

func (e *SurveyEngine) npsFeedback(npsQuestionID string, answers map[string]any) string {
	for i := range e.cfg.Questions {
		q := &e.cfg.Questions[i]
		if q.Type != schema.SurveyQuestionText || q.Logic == nil {
			continue
		}
		for _, cond := range q.Logic.Conditions {
			if cond.QuestionID == npsQuestionID {
				if text, ok := answers[q.ID].(string); ok {
					return strings.TrimSpace(text)
				}
			}
		}
	}
	return ""
}

// Satisfaction averages all answered rating questions, each normalized to a
// 5-point scale. ok=false when no rating question is answered.
func (e *SurveyEngine) Satisfaction(answers map[string]any) (float64, bool) {
	sum, count := 0.0, 0
	for i := range e.cfg.Questions {
		q := &e.cfg.Questions[i]
		if q.Type != schema.SurveyQuestionRating {
			continue
		}
		v, ok := coerceFloat(answers[q.ID])
		if !ok {
			continue
		}

		maxRating := q.MaxRating
		if maxRating == 0 {
			maxRating = 5
		}
		sum += v / float64(maxRating) * 5
		count++
	}

	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// IsComplete reports whether every question that is both required and
// currently visible has a non-empty answer. Hidden required questions do
// not block completion.
func (e *SurveyEngine) IsComplete(answers map[string]any) bool {
	visible := e.VisibleQuestions(answers)
	for i := range e.cfg.Questions {
		q := &e.cfg.Questions[i]
		if !q.Required || !containsID(visible, q.ID) {
			continue
		}
		if !answered(answers[q.ID]) {
			return false
		}
	}
	return true
}

// ProcessResponse aggregates a submission into a SurveyOutcome.
func (e *SurveyEngine) ProcessResponse(resp schema.SurveyResponse) schema.ProcessResult[schema.SurveyOutcome] {
	outcome := schema.SurveyOutcome{
		VisibleQuestions: e.VisibleQuestions(resp.Answers),
		Complete:         e.IsComplete(resp.Answers),
		NPS:              e.nps(resp.Answers),
		ThankYouTitle:    e.cfg.Settings.ThankYouTitle,
		ThankYouMessage:  e.cfg.Settings.ThankYouMessage,
	}

	for _, v := range resp.Answers {
		if answered(v) {
			outcome.AnsweredCount++
		}
	}

	if score, ok := e.Satisfaction(resp.Answers); ok {
		outcome.Satisfaction = &score
	}

	return schema.Ok(outcome).WithMetadata(map[string]any{
		"answered":  outcome.AnsweredCount,
		"questions": len(e.cfg.Questions),
	})
}

// order returns question IDs sorted by declared order.
func (e *SurveyEngine) order() []string {
	questions := make([]schema.SurveyQuestion, len(e.cfg.Questions))
	copy(questions, e.cfg.Questions)
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].Order < questions[j].Order })

	order := make([]string, len(questions))
	for i, q := range questions {
		order[i] = q.ID
	}
	return order
}

func (e *SurveyEngine) question(id string) *schema.SurveyQuestion {
	for i := range e.cfg.Questions {
		if e.cfg.Questions[i].ID == id {
			return &e.cfg.Questions[i]
		}
	}
	return nil
}

// answered reports whether an answer value is non-empty.
func answered(v any) bool {
	switch a := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(a) != ""
	case []string:
		return len(a) > 0
	case []any:
		return len(a) > 0
	}
	return true
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

var _ Engine[schema.SurveyConfig, schema.SurveyResponse, schema.SurveyOutcome, schema.SurveyState] = (*SurveyEngine)(nil)
