package schema

// ProcessResult carries every runtime outcome across the engine boundary.
// Failures are values: Success=false with Error set, never a panic or an
// error return that callers must distinguish from config faults.
type ProcessResult[T any] struct {
	Success  bool           `json:"success"`
	Data     T              `json:"data,omitempty"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Ok builds a successful result.
func Ok[T any](data T) ProcessResult[T] {
	return ProcessResult[T]{Success: true, Data: data}
}

// Fail builds a failed result from an error.
func Fail[T any](err error) ProcessResult[T] {
	return ProcessResult[T]{Success: false, Error: err.Error()}
}

// WithMetadata attaches a metadata map to the result.
func (r ProcessResult[T]) WithMetadata(md map[string]any) ProcessResult[T] {
	r.Metadata = md
	return r
}
