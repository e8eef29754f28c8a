package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtnitsch/cp-hints/models"
	"github.com/dtnitsch/cp-hints/pkg/relay"
)

// HTTP sends messages to a relay.Server.
type HTTP struct {
	baseURL string
	client  *http.Client
}

func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	return &HTTP{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (h *HTTP) Send(ctx context.Context, req models.HintRequest) (models.HintResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return models.HintResponse{}, fmt.Errorf("failed to encode hint request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/hints", bytes.NewReader(body))
	if err != nil {
		return models.HintResponse{}, transportError(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(relay.HeaderMessageID, uuid.NewString())

	resp, err := h.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return models.HintResponse{}, canceledError(ctx.Err())
		}
		return models.HintResponse{}, transportError(err)
	}
	defer resp.Body.Close()

	// The server answers 400 with a HintResponse too, so any decodable body
	// is a delivered response.
	var out models.HintResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.HintResponse{}, &models.HintError{
			Kind:    models.ErrTransportError,
			Message: fmt.Sprintf("unexpected relay response (status %d)", resp.StatusCode),
			Err:     err,
		}
	}
	return out, nil
}
