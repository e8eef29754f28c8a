package models

// ActionGetHints is the only action the relay answers.
const ActionGetHints = "getHints"

// HintRequest is the message sent from the overlay to the relay.
type HintRequest struct {
	Action      string       `json:"action"`
	ProblemInfo *ProblemInfo `json:"problemInfo"`
}

// HintResponse is the relay's tagged result. Hints is set when Success is
// true, Error otherwise.
type HintResponse struct {
	Success bool   `json:"success"`
	Hints   string `json:"hints,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HintPanel is one accordion entry derived from a successful response.
type HintPanel struct {
	Index    int    `json:"index" yaml:"index"`
	Text     string `json:"text" yaml:"text"` // sanitized HTML fragment
	Expanded bool   `json:"expanded" yaml:"expanded"`
	Height   int    `json:"height,omitempty" yaml:"height,omitempty"` // measured px while expanded
}

// NewHintFailure builds an unsuccessful response.
func NewHintFailure(msg string) HintResponse {
	return HintResponse{Success: false, Error: msg}
}

// NewHintSuccess builds a successful response.
func NewHintSuccess(hints string) HintResponse {
	return HintResponse{Success: true, Hints: hints}
}
