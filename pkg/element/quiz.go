package element

import (
	"math"
	"sort"
	"strings"

	"github.com/rendis/interact/internal/validation"
	"github.com/rendis/interact/pkg/schema"
)

// QuizEngine scores quiz submissions and matches the aggregate score
// against the configured result ranges.
type QuizEngine struct {
	base
	cfg schema.QuizConfig
}

// NewQuizEngine constructs a quiz engine over cfg.
func NewQuizEngine(cfg schema.QuizConfig, opts ...Option) *QuizEngine {
	e := &QuizEngine{cfg: cfg}
	e.base = newBase(&e.cfg.ElementConfig, opts)
	return e
}

func (e *QuizEngine) Type() schema.ElementType { return schema.ElementTypeQuiz }

// Config returns the current configuration.
func (e *QuizEngine) Config() schema.QuizConfig { return e.cfg }

// UpdateConfig replaces the configuration and stamps UpdatedAt.
func (e *QuizEngine) UpdateConfig(cfg schema.QuizConfig) {
	e.cfg = cfg
	e.touch()
}

// ValidateConfig runs the quiz validation pipeline.
func (e *QuizEngine) ValidateConfig() *schema.ValidationResult {
	return validation.ValidateQuiz(&e.cfg)
}

// InitialState seeds UI state: presentation order (shuffled when configured)
// and an empty answer map.
func (e *QuizEngine) InitialState() schema.QuizState {
	questions := make([]schema.QuizQuestion, len(e.cfg.Questions))
	copy(questions, e.cfg.Questions)
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].Order < questions[j].Order })

	if e.cfg.Settings.RandomizeQuestions {
		shuffle(e.rng, questions)
	}

	order := make([]string, len(questions))
	for i, q := range questions {
		order[i] = q.ID
	}

	return schema.QuizState{
		Status:               schema.QuizNotStarted,
		CurrentQuestionIndex: 0,
		Order:                order,
		Answers:              map[string]any{},
	}
}

// ShuffledOptions returns the question's options in presentation order,
// shuffled when the config asks for it.
func (e *QuizEngine) ShuffledOptions(questionID string) []schema.QuizOption {
	q := e.question(questionID)
	if q == nil {
		return nil
	}
	options := make([]schema.QuizOption, len(q.Options))
	copy(options, q.Options)
	if e.cfg.Settings.RandomizeOptions {
		shuffle(e.rng, options)
	}
	return options
}

// NextQuestion advances the quiz after answering. If the selected option
// declares a branch target, that target becomes the active question
// regardless of declared order; otherwise the next question in the state's
// order is used. A second return of false means the quiz is finished.
func (e *QuizEngine) NextQuestion(state schema.QuizState, questionID, optionID string) (string, bool) {
	if q := e.question(questionID); q != nil {
		for _, opt := range q.Options {
			if opt.ID == optionID && opt.NextQuestionID != "" {
				return opt.NextQuestionID, true
			}
		}
	}

	for i, id := range state.Order {
		if id == questionID {
			if i+1 < len(state.Order) {
				return state.Order[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

// ProcessResponse scores a full submission. Unanswered questions earn zero
// but still contribute to the maximum, so partial submissions score low
// rather than failing.
func (e *QuizEngine) ProcessResponse(resp schema.QuizResponse) schema.ProcessResult[schema.QuizOutcome] {
	var outcome schema.QuizOutcome

	for i := range e.cfg.Questions {
		q := &e.cfg.Questions[i]
		scored := e.scoreQuestion(q, resp.Answers[q.ID])
		outcome.Answers = append(outcome.Answers, scored)
		outcome.Score += scored.PointsEarned
		outcome.MaxScore += scored.MaxPoints
	}

	if outcome.MaxScore > 0 {
		outcome.Percentage = int(math.Round(outcome.Score / outcome.MaxScore * 100))
	}

	matched := e.matchResult(outcome.Score, outcome.Percentage)
	if matched == nil {
		e.logger.WarnContext(e.logCtx(resp.VisitorID, resp.SessionID),
			"quiz score matched no result range",
			"score", outcome.Score, "percentage", outcome.Percentage)
		return schema.Fail[schema.QuizOutcome](schema.NewErrorf(schema.ErrCodeNoMatchingResult,
			"score %v matches no configured result range", e.matchValue(outcome.Score, outcome.Percentage)))
	}
	outcome.Result = matched

	return schema.Ok(outcome).WithMetadata(map[string]any{
		"answered":  len(resp.Answers),
		"questions": len(e.cfg.Questions),
	})
}

// matchValue is the number compared against result ranges: the raw score,
// or the percentage under percentage scoring.
func (e *QuizEngine) matchValue(score float64, percentage int) float64 {
	if e.cfg.Scoring.Type == schema.ScoringPercentage {
		return float64(percentage)
	}
	return score
}

// matchResult returns the first declared result whose inclusive range
// contains the computed value, or nil when none does.
func (e *QuizEngine) matchResult(score float64, percentage int) *schema.QuizResult {
	v := e.matchValue(score, percentage)
	for i := range e.cfg.Results {
		r := &e.cfg.Results[i]
		if v >= r.MinScore && v <= r.MaxScore {
			matched := *r
			return &matched
		}
	}
	return nil
}

// scoreQuestion dispatches on the question type.
func (e *QuizEngine) scoreQuestion(q *schema.QuizQuestion, answer any) schema.ScoredAnswer {
	weight := q.Weight
	if weight == 0 {
		weight = 1
	}

	scored := schema.ScoredAnswer{QuestionID: q.ID}

	switch q.Type {
	case schema.QuizQuestionSingleChoice, schema.QuizQuestionTrueFalse, schema.QuizQuestionImageChoice:
		scored = e.scoreChoice(q, answer, weight)
	case schema.QuizQuestionMultipleChoice:
		scored = e.scoreMultiChoice(q, answer, weight)
	case schema.QuizQuestionText:
		scored = e.scoreText(q, answer, weight)
	case schema.QuizQuestionRating:
		scored = e.scoreRating(q, answer, weight)
	}

	scored.QuestionID = q.ID
	return scored
}

// correctOptionIDs resolves the correct set for a choice question:
// the explicit correct_answer list if present, else options flagged
// is_correct, else options carrying a positive score.
func correctOptionIDs(q *schema.QuizQuestion) map[string]bool {
	correct := make(map[string]bool)
	if len(q.CorrectAnswer) > 0 {
		for _, id := range q.CorrectAnswer {
			correct[id] = true
		}
		return correct
	}
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correct[opt.ID] = true
		}
	}
	if len(correct) > 0 {
		return correct
	}
	for _, opt := range q.Options {
		if opt.Score > 0 {
			correct[opt.ID] = true
		}
	}
	return correct
}

func (e *QuizEngine) scoreChoice(q *schema.QuizQuestion, answer any, weight float64) schema.ScoredAnswer {
	maxPoints := 0.0
	for _, opt := range q.Options {
		if opt.Score > maxPoints {
			maxPoints = opt.Score
		}
	}
	if maxPoints == 0 {
		maxPoints = 1
	}

	scored := schema.ScoredAnswer{MaxPoints: maxPoints * weight}

	selected, ok := answer.(string)
	if !ok || selected == "" {
		return scored
	}

	correct := correctOptionIDs(q)
	if !correct[selected] {
		return scored
	}

	scored.IsCorrect = true
	points := 1.0
	for _, opt := range q.Options {
		if opt.ID == selected && opt.Score > 0 {
			points = opt.Score
		}
	}
	scored.PointsEarned = points * weight
	return scored
}

// scoreMultiChoice awards full credit for an exact match against the correct
// set, else partial credit max(0, (correct - incorrect) / totalCorrect) with
// is_correct false.
func (e *QuizEngine) scoreMultiChoice(q *schema.QuizQuestion, answer any, weight float64) schema.ScoredAnswer {
	scored := schema.ScoredAnswer{MaxPoints: weight}

	selected := toStringSlice(answer)
	if len(selected) == 0 {
		return scored
	}

	correct := correctOptionIDs(q)
	if len(correct) == 0 {
		return scored
	}

	selectedSet := make(map[string]bool, len(selected))
	for _, id := range selected {
		selectedSet[id] = true
	}

	correctSelected, incorrectSelected := 0, 0
	for id := range selectedSet {
		if correct[id] {
			correctSelected++
		} else {
			incorrectSelected++
		}
	}

	if len(selectedSet) == len(correct) && correctSelected == len(correct) {
		scored.IsCorrect = true
		scored.PointsEarned = weight
		return scored
	}

	partial := (float64(correctSelected) - float64(incorrectSelected)) / float64(len(correct))
	if partial < 0 {
		partial = 0
	}
	scored.PointsEarned = partial * weight
	return scored
}

// scoreText matches trimmed, case-insensitive text against any accepted
// answer. With no accepted answers configured, any non-empty answer earns
// full credit.
func (e *QuizEngine) scoreText(q *schema.QuizQuestion, answer any, weight float64) schema.ScoredAnswer {
	scored := schema.ScoredAnswer{MaxPoints: weight}

	text, ok := answer.(string)
	text = strings.TrimSpace(text)
	if !ok || text == "" {
		return scored
	}

	if len(q.CorrectAnswer) == 0 {
		scored.IsCorrect = true
		scored.PointsEarned = weight
		return scored
	}

	for _, accepted := range q.CorrectAnswer {
		if strings.EqualFold(text, strings.TrimSpace(accepted)) {
			scored.IsCorrect = true
			scored.PointsEarned = weight
			break
		}
	}
	return scored
}

// scoreRating normalizes the rating against the option count. Ratings have
// no wrong answers; an answered rating is always marked correct.
func (e *QuizEngine) scoreRating(q *schema.QuizQuestion, answer any, weight float64) schema.ScoredAnswer {
	scored := schema.ScoredAnswer{MaxPoints: weight}

	rating, ok := coerceFloat(answer)
	if !ok || len(q.Options) == 0 {
		return scored
	}

	scored.IsCorrect = true
	scored.PointsEarned = rating / float64(len(q.Options)) * weight
	return scored
}

func (e *QuizEngine) question(id string) *schema.QuizQuestion {
	for i := range e.cfg.Questions {
		if e.cfg.Questions[i].ID == id {
			return &e.cfg.Questions[i]
		}
	}
	return nil
}

// toStringSlice accepts the shapes a JSON answer array can arrive in.
func toStringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	case string:
		if s == "" {
			return nil
		}
		return []string{s}
	}
	return nil
}

var _ Engine[schema.QuizConfig, schema.QuizResponse, schema.QuizOutcome, schema.QuizState] = (*QuizEngine)(nil)
