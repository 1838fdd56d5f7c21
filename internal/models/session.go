// internal/models/session.go
package models

import "time"

// FanoutPlan is the ordered, deduplicated list of manager categories the
// router chose for a session.
type FanoutPlan []string

// Contains reports whether the plan includes the given category.
func (p FanoutPlan) Contains(category string) bool {
	for _, c := range p {
		if c == category {
			return true
		}
	}
	return false
}

// Priority returns the position of a category in the plan, or len(plan)
// for categories outside it (fallback entries rank after planned managers).
func (p FanoutPlan) Priority(category string) int {
	for i, c := range p {
		if c == category {
			return i
		}
	}
	return len(p)
}

// SessionError records one contained failure with its stage of origin.
type SessionError struct {
	Stage     string    `json:"stage"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionState is the aggregate a session accumulates as it moves through
// the pipeline. It is owned by exactly one orchestrating goroutine for the
// session's lifetime; fields are set once and collections appended to.
type SessionState struct {
	SessionID string  `json:"sessionId"`
	Query     string  `json:"query"`
	Locale    string  `json:"locale"`
	Consent   Consent `json:"consent"`

	Request        *StructuredRequest       `json:"request,omitempty"`
	Plan           FanoutPlan               `json:"fanoutPlan,omitempty"`
	ManagerResults map[string]ManagerResult `json:"managerResults,omitempty"`

	Errors []SessionError `json:"errors,omitempty"`
	Trace  []string       `json:"trace,omitempty"`
}

// RecordStage appends a completed stage name to the execution trace.
func (s *SessionState) RecordStage(name string) {
	s.Trace = append(s.Trace, name)
}

// RecordError appends a contained failure to the session's error list.
func (s *SessionState) RecordError(stage, code, message string) {
	s.Errors = append(s.Errors, SessionError{
		Stage:     stage,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// PutResult stores a manager result under its own slot. Each manager owns
// exactly one key, so concurrent fan-out never collides as long as the
// orchestrator serializes the map insert.
func (s *SessionState) PutResult(result ManagerResult) {
	if s.ManagerResults == nil {
		s.ManagerResults = make(map[string]ManagerResult)
	}
	s.ManagerResults[result.Manager] = result
}

// SessionResult is the JSON-serializable terminal output: either a final
// recommendation set or an error report, never both.
type SessionResult struct {
	SessionID       string                  `json:"sessionId"`
	Recommendations *FinalRecommendationSet `json:"recommendations,omitempty"`
	Error           *ErrorReport            `json:"error,omitempty"`
	Trace           []string                `json:"trace,omitempty"`
}

// ErrorReport is the user-facing output of the error handler.
type ErrorReport struct {
	Message         string                    `json:"message"`
	ErrorsHandled   int                       `json:"errorsHandled"`
	RecoveryActions []string                  `json:"recoveryActions"`
	Fallback        []CandidateRecommendation `json:"fallback,omitempty"`
}
