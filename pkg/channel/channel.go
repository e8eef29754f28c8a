// Package channel carries getHints messages from the overlay to the relay.
package channel

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dtnitsch/cp-hints/models"
)

// MsgNoReceiver is reported when nothing is listening on the other end.
const MsgNoReceiver = "Could not establish connection. Receiving end does not exist."

// MsgCanceled is reported when the caller gives up before a response arrives.
const MsgCanceled = "Request canceled before the relay answered."

// Channel delivers a request and waits for its response. A non-nil error is a
// transport failure; relay-level failures arrive as an unsuccessful
// HintResponse.
type Channel interface {
	Send(ctx context.Context, req models.HintRequest) (models.HintResponse, error)
}

// Handler answers one message. *relay.Relay implements it.
type Handler interface {
	HandleMessage(ctx context.Context, messageID string, req models.HintRequest) models.HintResponse
}

// Local dispatches each message to a Handler on its own goroutine. Requests
// are independent: nothing is queued or de-duplicated.
type Local struct {
	handler Handler

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewLocal(handler Handler) *Local {
	return &Local{handler: handler}
}

func (l *Local) Send(ctx context.Context, req models.HintRequest) (models.HintResponse, error) {
	l.mu.RLock()
	if l.closed || l.handler == nil {
		l.mu.RUnlock()
		return models.HintResponse{}, transportError(nil)
	}
	l.wg.Add(1)
	l.mu.RUnlock()

	// The receiver gets its own copy, as a structured-clone boundary would.
	if req.ProblemInfo != nil {
		req.ProblemInfo = req.ProblemInfo.Clone()
	}
	messageID := uuid.NewString()

	done := make(chan models.HintResponse, 1)
	go func() {
		defer l.wg.Done()
		done <- l.handler.HandleMessage(ctx, messageID, req)
	}()

	select {
	case resp := <-done:
		return resp, nil
	case <-ctx.Done():
		return models.HintResponse{}, canceledError(ctx.Err())
	}
}

// Close stops accepting messages and waits for in-flight handlers.
func (l *Local) Close() error {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.wg.Wait()
	return nil
}

func transportError(err error) error {
	return &models.HintError{Kind: models.ErrTransportError, Message: MsgNoReceiver, Err: err}
}

func canceledError(err error) error {
	return &models.HintError{Kind: models.ErrTransportError, Message: MsgCanceled, Err: err}
}
