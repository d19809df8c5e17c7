// Package element implements the interactive element engines: quiz,
// calculator, and survey. Each engine is a pure, synchronous computation
// over an immutable configuration; all runtime failures cross the boundary
// as ProcessResult values, never as panics or raw errors.
package element

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"time"

	"github.com/rendis/interact/pkg/schema"
)

// Engine is the contract every element-type engine satisfies, parameterized
// over its config, response, result, and UI-state types.
type Engine[C, Resp, Res, S any] interface {
	// ValidateConfig runs the full authoring-time validation pipeline.
	// It never fails; an invalid config is a returned value.
	ValidateConfig() *schema.ValidationResult

	// ProcessResponse scores/evaluates one caller-owned submission.
	ProcessResponse(Resp) schema.ProcessResult[Res]

	// InitialState seeds the UI-facing state; the engine retains none of it.
	InitialState() S

	// Config returns the current configuration.
	Config() C

	// UpdateConfig replaces the configuration, stamping UpdatedAt.
	// Callers must serialize concurrent UpdateConfig calls.
	UpdateConfig(C)
}

// Validator is the type-erased view of an engine used at the factory
// boundary, where the concrete config type is not yet known.
type Validator interface {
	Type() schema.ElementType
	ValidateConfig() *schema.ValidationResult
}

// Option configures engine construction.
type Option func(*base)

// WithLogger sets the engine's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *base) { b.logger = logger }
}

// WithRand sets the random source used for question/option shuffling.
// The default source is unseeded; inject a seeded one for deterministic
// orderings in tests.
func WithRand(rng *rand.Rand) Option {
	return func(b *base) { b.rng = rng }
}

// WithClock sets the time source used for tracking-event timestamps and
// UpdatedAt stamping. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *base) { b.now = now }
}

// envelope is the minimal shape needed to pick an engine from raw JSON.
type envelope struct {
	Type schema.ElementType `json:"type"`
}

// FromJSON is the single factory boundary: it reads the type discriminant
// from a raw config document and constructs the matching engine. The match
// over ElementType is exhaustive; declared types without a shipped engine
// are rejected with UNSUPPORTED_TYPE rather than falling through.
func FromJSON(raw []byte, opts ...Option) (Validator, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, schema.NewError(schema.ErrCodeValidation, "configuration is not valid JSON").WithCause(err)
	}

	switch env.Type {
	case schema.ElementTypeQuiz:
		var cfg schema.QuizConfig
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, schema.NewError(schema.ErrCodeValidation, "malformed quiz configuration").WithCause(err)
		}
		return NewQuizEngine(cfg, opts...), nil

	case schema.ElementTypeCalculator:
		var cfg schema.CalculatorConfig
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, schema.NewError(schema.ErrCodeValidation, "malformed calculator configuration").WithCause(err)
		}
		return NewCalculatorEngine(cfg, opts...), nil

	case schema.ElementTypeSurvey:
		var cfg schema.SurveyConfig
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, schema.NewError(schema.ErrCodeValidation, "malformed survey configuration").WithCause(err)
		}
		return NewSurveyEngine(cfg, opts...), nil

	case schema.ElementTypeComparison, schema.ElementTypeConfigurator, schema.ElementTypeForm:
		return nil, schema.NewErrorf(schema.ErrCodeUnsupportedType,
			"element type %q has no engine", env.Type)

	default:
		return nil, schema.NewErrorf(schema.ErrCodeValidation,
			"unknown element type %q", env.Type)
	}
}
