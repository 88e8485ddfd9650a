package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/osse101/farmclock/internal/domain"
)

// chainErrorBody is the error envelope chain nodes return for failed pushes,
// possibly relayed verbatim by wallets
type chainErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Error   struct {
		Code    int    `json:"code"`
		Name    string `json:"name"`
		What    string `json:"what"`
		Details []struct {
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

// Classify maps a raw wallet error onto the domain taxonomy:
//   - dismissal of the signing prompt becomes domain.ErrUserCancelled
//   - a contract assertion becomes *domain.ContractAssertionError with the
//     contract's message extracted from the nested error details
//   - errors already in a domain class are returned unchanged
//   - anything else becomes domain.ErrNetworkOrIndexerLag
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrUserCancelled) || errors.Is(err, domain.ErrContractAssertion) {
		return err
	}

	text := err.Error()
	var be *BridgeError
	if errors.As(err, &be) {
		text = be.Body
	}

	if IsCancellation(text) {
		return fmt.Errorf("%w: %s", domain.ErrUserCancelled, text)
	}
	if ae := extractAssertion(text); ae != nil {
		return ae
	}
	if errors.Is(err, domain.ErrNetworkOrIndexerLag) || domain.IsLocalRejection(err) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrNetworkOrIndexerLag, err)
}

// IsCancellation reports whether msg is a wallet's "user dismissed the prompt" message
func IsCancellation(msg string) bool {
	lower := strings.ToLower(msg)
	for _, p := range cancelPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// extractAssertion pulls the contract's message out of a chain error. It
// accepts the JSON envelope or a plain string containing the assertion prefix.
func extractAssertion(text string) *domain.ContractAssertionError {
	var body chainErrorBody
	if err := json.Unmarshal([]byte(text), &body); err == nil {
		for _, d := range body.Error.Details {
			if msg, ok := cutAssertion(d.Message); ok {
				return &domain.ContractAssertionError{Message: msg, Code: body.Error.Code}
			}
		}
		if body.Error.Name == "eosio_assert_message_exception" && len(body.Error.Details) > 0 {
			return &domain.ContractAssertionError{Message: body.Error.Details[0].Message, Code: body.Error.Code}
		}
		return nil
	}

	if msg, ok := cutAssertion(text); ok {
		return &domain.ContractAssertionError{Message: msg}
	}
	return nil
}

func cutAssertion(s string) (string, bool) {
	i := strings.Index(strings.ToLower(s), assertionPrefix)
	if i < 0 {
		return "", false
	}
	return strings.TrimSpace(s[i+len(assertionPrefix):]), true
}

// UserMessage returns the text to show for a classified error. Cancellation
// yields "" because it is not an error from the user's point of view.
func UserMessage(err error) string {
	var ae *domain.ContractAssertionError
	switch {
	case err == nil, errors.Is(err, domain.ErrUserCancelled):
		return ""
	case errors.As(err, &ae):
		return ae.Message
	default:
		return err.Error()
	}
}
