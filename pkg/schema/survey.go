package schema

// SurveyQuestionType enumerates the supported survey question kinds.
type SurveyQuestionType string

const (
	SurveyQuestionSingleChoice   SurveyQuestionType = "single_choice"
	SurveyQuestionMultipleChoice SurveyQuestionType = "multiple_choice"
	SurveyQuestionText           SurveyQuestionType = "text"
	SurveyQuestionRating         SurveyQuestionType = "rating"
	SurveyQuestionNPS            SurveyQuestionType = "nps"
)

// LogicAction is what a conditional rule does to its question.
type LogicAction string

const (
	LogicShow   LogicAction = "show"
	LogicHide   LogicAction = "hide"
	LogicSkipTo LogicAction = "skip_to"
)

// ConditionOperator compares a referenced answer against a literal value.
type ConditionOperator string

const (
	OpEquals      ConditionOperator = "equals"
	OpNotEquals   ConditionOperator = "not_equals"
	OpContains    ConditionOperator = "contains"
	OpGreaterThan ConditionOperator = "greater_than"
	OpLessThan    ConditionOperator = "less_than"
)

// Combinator joins multiple conditions on one rule.
type Combinator string

const (
	CombinatorAnd Combinator = "and"
	CombinatorOr  Combinator = "or"
)

// Condition compares another question's current answer against a value.
type Condition struct {
	QuestionID string            `json:"question_id"`
	Operator   ConditionOperator `json:"operator"`
	Value      any               `json:"value"`
}

// ConditionalLogic gates a survey question's visibility or navigation.
type ConditionalLogic struct {
	Action     LogicAction `json:"action"`
	Conditions []Condition `json:"conditions"`
	Combinator Combinator  `json:"combinator,omitempty"` // default "and"
	SkipTo     string      `json:"skip_to,omitempty"`    // target question ID for skip_to
}

// SurveyConfig is the full configuration for a survey element.
type SurveyConfig struct {
	ElementConfig

	Questions []SurveyQuestion `json:"questions"`
	Settings  SurveySettings   `json:"settings"`
}

// SurveyQuestion is a single question within a survey.
type SurveyQuestion struct {
	ID        string             `json:"id"`
	Type      SurveyQuestionType `json:"type"`
	Prompt    string             `json:"prompt"`
	Options   []string           `json:"options,omitempty"`
	MaxRating int                `json:"max_rating,omitempty"` // rating scale ceiling, default 5
	Required  bool               `json:"required"`
	Order     int                `json:"order"`
	Logic     *ConditionalLogic  `json:"logic,omitempty"`
}

// SurveySettings holds survey-level behavior flags.
type SurveySettings struct {
	Randomize       bool   `json:"randomize,omitempty"`
	Anonymous       bool   `json:"anonymous,omitempty"`
	AllowSkip       bool   `json:"allow_skip,omitempty"`
	ThankYouTitle   string `json:"thank_you_title,omitempty"`
	ThankYouMessage string `json:"thank_you_message,omitempty"`
}

// SurveyResponse is the caller-owned submission for a survey.
type SurveyResponse struct {
	Answers   map[string]any `json:"answers"`
	VisitorID string         `json:"visitor_id,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
}

// NPSCategory is the standard Net Promoter Score band.
type NPSCategory string

const (
	NPSPromoter  NPSCategory = "promoter"
	NPSPassive   NPSCategory = "passive"
	NPSDetractor NPSCategory = "detractor"
)

// NPSResult classifies a 0-10 answer with optional free-text feedback.
type NPSResult struct {
	Score    int         `json:"score"`
	Category NPSCategory `json:"category"`
	Feedback string      `json:"feedback,omitempty"`
}

// SurveyOutcome is the aggregated result of a survey submission.
type SurveyOutcome struct {
	AnsweredCount    int        `json:"answered_count"`
	VisibleQuestions []string   `json:"visible_questions"`
	Complete         bool       `json:"complete"`
	NPS              *NPSResult `json:"nps,omitempty"`
	Satisfaction     *float64   `json:"satisfaction,omitempty"` // 1-5 scale
	ThankYouTitle    string     `json:"thank_you_title,omitempty"`
	ThankYouMessage  string     `json:"thank_you_message,omitempty"`
}

// SurveyState is the UI-facing state seeded by InitialState.
type SurveyState struct {
	CurrentQuestionID string         `json:"current_question_id"`
	Order             []string       `json:"order"`
	Visible           []string       `json:"visible"`
	Answers           map[string]any `json:"answers"`
}
