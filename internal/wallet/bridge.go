package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/osse101/farmclock/internal/domain"
	"github.com/osse101/farmclock/internal/logger"
)

// BridgeSession forwards transactions to a local wallet bridge over HTTP.
// The bridge owns keys and the approval prompt.
type BridgeSession struct {
	baseURL string
	actor   string
	http    *http.Client
}

// NewBridgeSession creates a session for actor against the bridge at baseURL
func NewBridgeSession(baseURL, actor string) *BridgeSession {
	return &BridgeSession{
		baseURL: strings.TrimRight(baseURL, "/"),
		actor:   actor,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
}

// Actor returns the signing account
func (s *BridgeSession) Actor() string {
	return s.actor
}

type transactRequest struct {
	Actions []Action `json:"actions"`
}

// BridgeError is a non-2xx bridge response
type BridgeError struct {
	Status int
	Body   string
}

func (e *BridgeError) Error() string {
	return fmt.Sprintf(ErrMsgBridgeStatus, e.Status) + ": " + e.Body
}

// Transact posts the actions and waits for the bridge to sign and broadcast.
// Errors are passed through Classify.
func (s *BridgeSession) Transact(ctx context.Context, actions []Action) (Receipt, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgTransactSubmitted, "actor", s.actor, "actions", Describe(actions))

	body, err := json.Marshal(transactRequest{Actions: actions})
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+PathTransact, bytes.NewReader(body))
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return Receipt{}, Classify(fmt.Errorf("%w: %v", domain.ErrNetworkOrIndexerLag, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Receipt{}, Classify(fmt.Errorf("%w: %v", domain.ErrNetworkOrIndexerLag, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Receipt{}, Classify(&BridgeError{Status: resp.StatusCode, Body: string(raw)})
	}

	var receipt Receipt
	if err := json.Unmarshal(raw, &receipt); err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", domain.ErrNetworkOrIndexerLag, err)
	}

	log.Info(LogMsgTransactDone, "tx_id", receipt.TransactionID)
	return receipt, nil
}
