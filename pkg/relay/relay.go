// Package relay answers getHints messages: it loads the API key, builds the
// prompt and calls the completion endpoint once.
package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dtnitsch/cp-hints/models"
	"github.com/dtnitsch/cp-hints/pkg/settings"
)

// MaxContentRunes caps the problem statement embedded in the prompt.
const MaxContentRunes = 4000

const (
	msgMissingProblem = "Problem information was not provided."
	msgMissingKey     = `Gemini API key not found. Please set it with "cp-hints config set-key".`
	msgFetchFailed    = "Failed to fetch hints: "
)

// Completer turns a prompt into generated text.
type Completer interface {
	Complete(ctx context.Context, apiKey, prompt string) (string, error)
}

// Recorder stores one entry per handled request.
type Recorder interface {
	RecordHint(ctx context.Context, entry Entry) error
}

// Entry describes a handled request for a Recorder.
type Entry struct {
	MessageID string
	Problem   *models.ProblemInfo
	Response  models.HintResponse
	Kind      models.ErrorKind
	HintCount int
	Duration  time.Duration
}

type Relay struct {
	logger    *slog.Logger
	store     settings.Store
	completer Completer
	recorder  Recorder
}

func New(logger *slog.Logger, store settings.Store, completer Completer) *Relay {
	return &Relay{logger: logger, store: store, completer: completer}
}

// WithRecorder sets r as the history sink and returns the relay.
func (r *Relay) WithRecorder(rec Recorder) *Relay {
	r.recorder = rec
	return r
}

// Handle processes a single problem. Concurrent calls are independent; there
// is no queue or de-duplication.
func (r *Relay) Handle(ctx context.Context, info *models.ProblemInfo) models.HintResponse {
	return r.HandleMessage(ctx, "", models.HintRequest{Action: models.ActionGetHints, ProblemInfo: info})
}

// HandleMessage is Handle for a full message envelope.
func (r *Relay) HandleMessage(ctx context.Context, messageID string, req models.HintRequest) models.HintResponse {
	start := time.Now()
	resp, kind := r.handle(ctx, req)

	logger := r.logger.With("message_id", messageID, "duration_ms", time.Since(start).Milliseconds())
	if resp.Success {
		logger.Info("hints generated", "platform", platformOf(req.ProblemInfo))
	} else {
		logger.Warn("hint request failed", "kind", kind, "error", resp.Error)
	}

	if r.recorder != nil {
		entry := Entry{
			MessageID: messageID,
			Problem:   req.ProblemInfo,
			Response:  resp,
			Kind:      kind,
			HintCount: countHints(resp.Hints),
			Duration:  time.Since(start),
		}
		if err := r.recorder.RecordHint(ctx, entry); err != nil {
			logger.Warn("failed to record hint request", "error", err)
		}
	}

	return resp
}

// handle answers req and classifies a failure; the kind is "" on success
// and for unknown actions.
func (r *Relay) handle(ctx context.Context, req models.HintRequest) (models.HintResponse, models.ErrorKind) {
	if req.Action != "" && req.Action != models.ActionGetHints {
		return models.NewHintFailure(fmt.Sprintf("Unknown action %q.", req.Action)), ""
	}
	if req.ProblemInfo == nil {
		return models.NewHintFailure(msgMissingProblem), models.ErrExtractionFailure
	}

	apiKey, err := settings.APIKey(ctx, r.store)
	if err != nil {
		return models.NewHintFailure(msgFetchFailed + err.Error()), models.ErrConfigurationError
	}
	if apiKey == "" {
		return models.NewHintFailure(msgMissingKey), models.ErrConfigurationError
	}

	hints, err := r.completer.Complete(ctx, apiKey, BuildPrompt(req.ProblemInfo))
	if err != nil {
		kind := models.KindOf(err)
		if kind == "" {
			kind = models.ErrTransportError
		}
		return models.NewHintFailure(msgFetchFailed + failureText(err)), kind
	}
	return models.NewHintSuccess(hints), ""
}

// failureText prefers a HintError's own message over the wrapped chain.
func failureText(err error) string {
	var he *models.HintError
	if errors.As(err, &he) && he.Kind == models.ErrUpstreamError {
		return he.Error()
	}
	return err.Error()
}

// Truncate returns at most max runes of s.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// BuildPrompt embeds the problem in the hint instruction. Content beyond
// MaxContentRunes is dropped without notice.
func BuildPrompt(info *models.ProblemInfo) string {
	content := "Not available"
	if info.Content != "" {
		content = Truncate(info.Content, MaxContentRunes)
	}
	tags := "Not specified"
	if len(info.Tags) > 0 {
		tags = strings.Join(info.Tags, ", ")
	}

	var b strings.Builder
	b.WriteString("You are an expert competitive programming assistant.\n")
	b.WriteString("Your task is to provide helpful hints for the following problem without giving away the solution or writing any code.\n")
	b.WriteString("Use the provided problem statement to generate high-quality, relevant hints.\n\n")
	b.WriteString("Please generate 3 to 5 short, incremental hints. Start with a very high-level concept and gradually become more specific with each hint. ")
	b.WriteString("The goal is to guide the user to discover the solution on their own. Never give the full solution and never include code.\n\n")
	b.WriteString("Format your response in Markdown, with each hint on a new line starting with an asterisk (*).\n\n")
	b.WriteString("**Problem Details:**\n")
	fmt.Fprintf(&b, "- **Platform:** %s\n", info.Platform)
	fmt.Fprintf(&b, "- **Title:** %s\n", info.Title)
	fmt.Fprintf(&b, "- **Difficulty:** %s\n", models.Deref(info.Difficulty, "Not specified"))
	fmt.Fprintf(&b, "- **Tags:** %s\n\n", tags)
	b.WriteString("**Problem Statement:**\n")
	b.WriteString(content)
	b.WriteString("\n")
	return b.String()
}

func platformOf(info *models.ProblemInfo) string {
	if info == nil {
		return ""
	}
	return string(info.Platform)
}

// countHints counts asterisk-led lines, for history only.
func countHints(markdown string) int {
	n := 0
	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "*") {
			n++
		}
	}
	return n
}
