package schema

// QuizQuestionType enumerates the supported quiz question kinds.
type QuizQuestionType string

const (
	QuizQuestionSingleChoice   QuizQuestionType = "single_choice"
	QuizQuestionMultipleChoice QuizQuestionType = "multiple_choice"
	QuizQuestionTrueFalse      QuizQuestionType = "true_false"
	QuizQuestionImageChoice    QuizQuestionType = "image_choice"
	QuizQuestionText           QuizQuestionType = "text"
	QuizQuestionRating         QuizQuestionType = "rating"
)

// ScoringType selects how quiz answers are aggregated into a final score.
type ScoringType string

const (
	ScoringPoints     ScoringType = "points"
	ScoringPercentage ScoringType = "percentage"
	ScoringWeighted   ScoringType = "weighted"
	ScoringCustom     ScoringType = "custom"
)

// QuizConfig is the full configuration for a quiz element.
type QuizConfig struct {
	ElementConfig

	Questions []QuizQuestion `json:"questions"`
	Results   []QuizResult   `json:"results"`
	Scoring   ScoringConfig  `json:"scoring"`
	Settings  QuizSettings   `json:"settings"`
}

// QuizQuestion is a single question within a quiz.
type QuizQuestion struct {
	ID       string           `json:"id"`
	Type     QuizQuestionType `json:"type"`
	Prompt   string           `json:"prompt"`
	ImageURL string           `json:"image_url,omitempty"`
	Options  []QuizOption     `json:"options,omitempty"`

	// CorrectAnswer holds the authored correct option ID(s) or accepted
	// text answer(s). When empty, option flags decide correctness.
	CorrectAnswer []string `json:"correct_answer,omitempty"`

	Required  bool    `json:"required"`
	Weight    float64 `json:"weight,omitempty"` // default 1
	TimeLimit int     `json:"time_limit,omitempty"` // seconds, advisory only
	Order     int     `json:"order"`
}

// QuizOption is one selectable answer for a choice-type question.
type QuizOption struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	ImageURL string  `json:"image_url,omitempty"`
	Score    float64 `json:"score,omitempty"`
	IsCorrect bool   `json:"is_correct,omitempty"`

	// NextQuestionID branches the quiz to a specific question when this
	// option is selected, overriding declared order.
	NextQuestionID string `json:"next_question_id,omitempty"`
}

// QuizResult is an outcome matched against the final score. Ranges are
// inclusive on both ends.
type QuizResult struct {
	ID           string          `json:"id"`
	MinScore     float64         `json:"min_score"`
	MaxScore     float64         `json:"max_score"`
	Title        string          `json:"title"`
	Message      string          `json:"message,omitempty"`
	ImageURL     string          `json:"image_url,omitempty"`
	PersonaMatch string          `json:"persona_match,omitempty"`
	FollowUp     *FollowUpAction `json:"follow_up,omitempty"`
	CTALabel     string          `json:"cta_label,omitempty"`
}

// ScoringConfig selects the aggregation policy for a quiz.
type ScoringConfig struct {
	Type ScoringType `json:"type"`
}

// QuizSettings holds quiz-level behavior flags.
type QuizSettings struct {
	AllowRetake        bool `json:"allow_retake,omitempty"`
	RandomizeQuestions bool `json:"randomize_questions,omitempty"`
	RandomizeOptions   bool `json:"randomize_options,omitempty"`
	ShowProgress       bool `json:"show_progress,omitempty"`
	TimeLimit          int  `json:"time_limit,omitempty"` // seconds, advisory only
}

// QuizResponse is the caller-owned submission passed to ProcessResponse.
// Answers map question IDs to a selected option ID (string), selected option
// IDs ([]string), free text (string), or a rating (number).
type QuizResponse struct {
	Answers   map[string]any `json:"answers"`
	VisitorID string         `json:"visitor_id,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
}

// ScoredAnswer is the per-question scoring detail included in a QuizOutcome.
type ScoredAnswer struct {
	QuestionID   string  `json:"question_id"`
	IsCorrect    bool    `json:"is_correct"`
	PointsEarned float64 `json:"points_earned"`
	MaxPoints    float64 `json:"max_points"`
}

// QuizOutcome is the scored result of a quiz submission.
type QuizOutcome struct {
	Score      float64        `json:"score"`
	MaxScore   float64        `json:"max_score"`
	Percentage int            `json:"percentage"`
	Answers    []ScoredAnswer `json:"answers"`
	Result     *QuizResult    `json:"result,omitempty"`
}

// QuizStatus represents progress through a quiz attempt.
type QuizStatus string

const (
	QuizNotStarted QuizStatus = "not_started"
	QuizInProgress QuizStatus = "in_progress"
	QuizComplete   QuizStatus = "complete"
)

// QuizState is the UI-facing state seeded by InitialState. The engine never
// retains it; callers thread it through navigation helpers.
type QuizState struct {
	Status               QuizStatus     `json:"status"`
	CurrentQuestionIndex int            `json:"current_question_index"`
	Order                []string       `json:"order"` // question IDs in presentation order
	Answers              map[string]any `json:"answers"`
}
