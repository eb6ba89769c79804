package offload

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Command tags the kind of work a Request asks for.
type Command string

// Request is the outbound message. The worker only ever sees a decoded copy.
type Request struct {
	ID         uuid.UUID      `json:"id"`
	Command    Command        `json:"command"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

func NewRequest(command Command, parameters map[string]any) Request {
	return Request{
		ID:         uuid.New(),
		Command:    command,
		Parameters: parameters,
	}
}

// Has reports whether the named parameter is present.
func (r Request) Has(name string) bool {
	_, ok := r.Parameters[name]
	return ok
}

func (r Request) Int(name string) (int, error) {
	v, ok := r.Parameters[name]
	if !ok {
		return 0, fmt.Errorf("parameter %q is missing", name)
	}

	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("parameter %q: %w", name, err)
		}
		return int(i), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("parameter %q is not an integer: %v", name, n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("parameter %q is not a number: %T", name, v)
	}
}

func (r Request) Bool(name string) (bool, error) {
	v, ok := r.Parameters[name]
	if !ok {
		return false, fmt.Errorf("parameter %q is missing", name)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("parameter %q is not a bool: %T", name, v)
	}
	return b, nil
}

func (r Request) String(name string) (string, error) {
	v, ok := r.Parameters[name]
	if !ok {
		return "", fmt.Errorf("parameter %q is missing", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q is not a string: %T", name, v)
	}
	return s, nil
}

type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeFailure   Outcome = "failure"
	OutcomeCancelled Outcome = "cancelled"
)

// Result is the inbound message, created only by a worker and delivered
// exactly once per accepted request.
type Result struct {
	RequestID uuid.UUID       `json:"request_id"`
	Outcome   Outcome         `json:"outcome"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func (r Result) IsSuccess() bool {
	return r.Outcome == OutcomeSuccess
}

// Decode unmarshals the payload of a successful result into v.
func (r Result) Decode(v any) error {
	if !r.IsSuccess() {
		return r.Err()
	}
	return json.Unmarshal(r.Payload, v)
}

// Err is nil for a success and otherwise wraps ErrTaskFailure or ErrCancelled.
func (r Result) Err() error {
	switch r.Outcome {
	case OutcomeSuccess:
		return nil
	case OutcomeCancelled:
		return fmt.Errorf("%w: %s", ErrCancelled, r.Error)
	default:
		return fmt.Errorf("%w: %s", ErrTaskFailure, r.Error)
	}
}
