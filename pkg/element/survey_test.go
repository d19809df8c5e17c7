package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendis/interact/pkg/schema"
)

func fixtureSurvey() schema.SurveyConfig {
	return schema.SurveyConfig{
		ElementConfig: schema.ElementConfig{
			ID:        "survey-1",
			Type:      schema.ElementTypeSurvey,
			WebsiteID: "site-1",
			Title:     "Feedback",
		},
		Questions: []schema.SurveyQuestion{
			{ID: "q1", Type: schema.SurveyQuestionSingleChoice, Prompt: "Are you a customer?",
				Options: []string{"yes", "no"}, Required: true, Order: 1},
			{ID: "q2", Type: schema.SurveyQuestionText, Prompt: "What do you buy?", Order: 2,
				Logic: &schema.ConditionalLogic{
					Action: schema.LogicShow,
					Conditions: []schema.Condition{
						{QuestionID: "q1", Operator: schema.OpEquals, Value: "yes"},
					},
				}},
			{ID: "q3", Type: schema.SurveyQuestionRating, Prompt: "Rate us", MaxRating: 10, Order: 3},
			{ID: "q4", Type: schema.SurveyQuestionNPS, Prompt: "Recommend us?", Order: 4},
		},
	}
}

// --- Visibility ---

func TestSurvey_ShowRuleHiddenUntilConditionMet(t *testing.T) {
	e := NewSurveyEngine(fixtureSurvey())

	visible := e.VisibleQuestions(map[string]any{})
	assert.NotContains(t, visible, "q2")

	visible = e.VisibleQuestions(map[string]any{"q1": "no"})
	assert.NotContains(t, visible, "q2")

	visible = e.VisibleQuestions(map[string]any{"q1": "yes"})
	assert.Contains(t, visible, "q2")
}

func TestSurvey_HideRuleVisibleUntilConditionMet(t *testing.T) {
	cfg := fixtureSurvey()
	cfg.Questions[1].Logic = &schema.ConditionalLogic{
		Action: schema.LogicHide,
		Conditions: []schema.Condition{
			{QuestionID: "q1", Operator: schema.OpEquals, Value: "no"},
		},
	}
	e := NewSurveyEngine(cfg)

	assert.Contains(t, e.VisibleQuestions(nil), "q2")
	assert.NotContains(t, e.VisibleQuestions(map[string]any{"q1": "no"}), "q2")
}

func TestSurvey_OrCombinator(t *testing.T) {
	cfg := fixtureSurvey()
	cfg.Questions[1].Logic = &schema.ConditionalLogic{
		Action:     schema.LogicShow,
		Combinator: schema.CombinatorOr,
		Conditions: []schema.Condition{
			{QuestionID: "q1", Operator: schema.OpEquals, Value: "yes"},
			{QuestionID: "q3", Operator: schema.OpGreaterThan, Value: 7},
		},
	}
	e := NewSurveyEngine(cfg)

	assert.Contains(t, e.VisibleQuestions(map[string]any{"q3": 8.0}), "q2")
	assert.NotContains(t, e.VisibleQuestions(map[string]any{"q3": 5.0}), "q2")
}

func TestSurvey_ArrayAnswerContainment(t *testing.T) {
	cfg := fixtureSurvey()
	cfg.Questions[0].Type = schema.SurveyQuestionMultipleChoice
	e := NewSurveyEngine(cfg)

	visible := e.VisibleQuestions(map[string]any{"q1": []string{"maybe", "yes"}})
	assert.Contains(t, visible, "q2")
}

// --- Navigation ---

func TestSurvey_SkipToJumpsWhenConditionMet(t *testing.T) {
	cfg := fixtureSurvey()
	cfg.Questions[0].Logic = &schema.ConditionalLogic{
		Action: schema.LogicSkipTo,
		Conditions: []schema.Condition{
			{QuestionID: "q1", Operator: schema.OpEquals, Value: "no"},
		},
		SkipTo: "q4",
	}
	e := NewSurveyEngine(cfg)

	state := e.InitialState()
	next, ok := e.NextQuestion(state, "q1", map[string]any{"q1": "no"})
	require.True(t, ok)
	assert.Equal(t, "q4", next)

	next, ok = e.NextQuestion(state, "q1", map[string]any{"q1": "yes"})
	require.True(t, ok)
	assert.Equal(t, "q2", next) // q2 visible because q1=yes
}

func TestSurvey_NextSkipsHiddenQuestions(t *testing.T) {
	e := NewSurveyEngine(fixtureSurvey())

	// q1 answered "no": q2 stays hidden, navigation lands on q3.
	next, ok := e.NextQuestion(e.InitialState(), "q1", map[string]any{"q1": "no"})
	require.True(t, ok)
	assert.Equal(t, "q3", next)
}

func TestSurvey_NextAtEndReturnsFalse(t *testing.T) {
	e := NewSurveyEngine(fixtureSurvey())
	_, ok := e.NextQuestion(e.InitialState(), "q4", map[string]any{})
	assert.False(t, ok)
}

func TestSurvey_NextFollowsStateOrder(t *testing.T) {
	e := NewSurveyEngine(fixtureSurvey())

	// A shuffled session order, not the declared one: after q3 comes q4.
	state := schema.SurveyState{Order: []string{"q3", "q4", "q1"}}
	next, ok := e.NextQuestion(state, "q3", map[string]any{})
	require.True(t, ok)
	assert.Equal(t, "q4", next)

	// The declared order would continue q1 -> q2/q3; the session order ends.
	_, ok = e.NextQuestion(state, "q1", map[string]any{})
	assert.False(t, ok)
}

// --- NPS ---

func TestSurvey_NPSClassification(t *testing.T) {
	cases := []struct {
		score int
		want  schema.NPSCategory
	}{
		{10, schema.NPSPromoter},
		{9, schema.NPSPromoter},
		{8, schema.NPSPassive},
		{7, schema.NPSPassive},
		{6, schema.NPSDetractor},
		{0, schema.NPSDetractor},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyNPS(tc.score), "score %d", tc.score)
	}
}

func TestSurvey_NPSInOutcomeWithFeedback(t *testing.T) {
	cfg := fixtureSurvey()
	cfg.Questions = append(cfg.Questions, schema.SurveyQuestion{
		ID: "q5", Type: schema.SurveyQuestionText, Prompt: "Why that score?", Order: 5,
		Logic: &schema.ConditionalLogic{
			Action: schema.LogicShow,
			Conditions: []schema.Condition{
				{QuestionID: "q4", Operator: schema.OpLessThan, Value: 7},
			},
		},
	})
	e := NewSurveyEngine(cfg)

	res := e.ProcessResponse(schema.SurveyResponse{Answers: map[string]any{
		"q1": "yes",
		"q4": 4.0,
		"q5": "too expensive",
	}})
	require.True(t, res.Success, res.Error)
	require.NotNil(t, res.Data.NPS)
	assert.Equal(t, schema.NPSDetractor, res.Data.NPS.Category)
	assert.Equal(t, "too expensive", res.Data.NPS.Feedback)
}

// --- Satisfaction ---

func TestSurvey_SatisfactionNormalizedToFivePoint(t *testing.T) {
	e := NewSurveyEngine(fixtureSurvey())

	score, ok := e.Satisfaction(map[string]any{"q3": 8.0}) // 8/10 * 5 = 4
	require.True(t, ok)
	assert.InDelta(t, 4.0, score, 1e-9)
}

func TestSurvey_SatisfactionUndefinedWithoutRatings(t *testing.T) {
	e := NewSurveyEngine(fixtureSurvey())
	_, ok := e.Satisfaction(map[string]any{"q1": "yes"})
	assert.False(t, ok)
}

// --- Completion ---

func TestSurvey_HiddenRequiredQuestionDoesNotBlockCompletion(t *testing.T) {
	cfg := fixtureSurvey()
	cfg.Questions[1].Required = true // q2 required but only shown when q1=yes

	e := NewSurveyEngine(cfg)
	assert.True(t, e.IsComplete(map[string]any{"q1": "no"}))
	assert.False(t, e.IsComplete(map[string]any{"q1": "yes"}))
	assert.True(t, e.IsComplete(map[string]any{"q1": "yes", "q2": "widgets"}))
}

func TestSurvey_RequiredUnansweredBlocksCompletion(t *testing.T) {
	e := NewSurveyEngine(fixtureSurvey())
	assert.False(t, e.IsComplete(map[string]any{}))
}

// --- ProcessResponse ---

func TestSurvey_OutcomeAggregates(t *testing.T) {
	cfg := fixtureSurvey()
	cfg.Settings.ThankYouTitle = "Thanks!"

	e := NewSurveyEngine(cfg)
	res := e.ProcessResponse(schema.SurveyResponse{Answers: map[string]any{
		"q1": "yes",
		"q3": 10.0,
		"q4": 9.0,
	}})
	require.True(t, res.Success, res.Error)

	assert.Equal(t, 3, res.Data.AnsweredCount)
	assert.True(t, res.Data.Complete)
	require.NotNil(t, res.Data.Satisfaction)
	assert.InDelta(t, 5.0, *res.Data.Satisfaction, 1e-9)
	require.NotNil(t, res.Data.NPS)
	assert.Equal(t, schema.NPSPromoter, res.Data.NPS.Category)
	assert.Equal(t, "Thanks!", res.Data.ThankYouTitle)
}

// --- Validation ---

func TestSurvey_ValidateConfigHappyPath(t *testing.T) {
	e := NewSurveyEngine(fixtureSurvey())
	result := e.ValidateConfig()
	assert.True(t, result.Valid(), result.Errors)
}

func TestSurvey_ValidateConfigRejectsDanglingLogicRef(t *testing.T) {
	cfg := fixtureSurvey()
	cfg.Questions[1].Logic.Conditions[0].QuestionID = "ghost"
	e := NewSurveyEngine(cfg)

	result := e.ValidateConfig()
	require.False(t, result.Valid())
	assert.Contains(t, result.Errors[0].Message, "ghost")
}

func TestSurvey_ValidateConfigRequiresSkipTarget(t *testing.T) {
	cfg := fixtureSurvey()
	cfg.Questions[0].Logic = &schema.ConditionalLogic{
		Action: schema.LogicSkipTo,
		Conditions: []schema.Condition{
			{QuestionID: "q1", Operator: schema.OpEquals, Value: "no"},
		},
	}
	e := NewSurveyEngine(cfg)

	result := e.ValidateConfig()
	assert.False(t, result.Valid())
}
