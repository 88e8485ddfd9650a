package wallet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/farmclock/internal/domain"
)

const assertBody = `{"code":500,"message":"Internal Service Error","error":{"code":3050003,"name":"eosio_assert_message_exception","what":"eosio_assert_message assertion failure","details":[{"message":"assertion failure with message: not enough energy","file":"cf_system.cpp","line_number":14}]}}`

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantIs    error
		wantMsg   string
		unchanged bool
	}{
		{"user canceled", errors.New("User canceled request"), domain.ErrUserCancelled, "", false},
		{"user cancelled british", errors.New("Error: user cancelled the signing"), domain.ErrUserCancelled, "", false},
		{"window closed", errors.New("popup window closed"), domain.ErrUserCancelled, "", false},
		{"bridge cancel body", &BridgeError{Status: 400, Body: `{"message":"Request rejected by user"}`}, domain.ErrUserCancelled, "", false},
		{"nested assertion", &BridgeError{Status: 500, Body: assertBody}, domain.ErrContractAssertion, "not enough energy", false},
		{"plain assertion", errors.New("transaction failed: assertion failure with message: slot is not ready"), domain.ErrContractAssertion, "slot is not ready", false},
		{"bridge 502", &BridgeError{Status: 502, Body: "bad gateway"}, domain.ErrNetworkOrIndexerLag, "", false},
		{"unknown", errors.New("socket hang up"), domain.ErrNetworkOrIndexerLag, "", false},
		{"local rejection kept", domain.ErrOnCooldown, domain.ErrIllegalTransition, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			require.Error(t, got)
			assert.ErrorIs(t, got, tt.wantIs)
			if tt.unchanged {
				assert.Equal(t, tt.err, got)
			}
			if tt.wantMsg != "" {
				var ae *domain.ContractAssertionError
				require.ErrorAs(t, got, &ae)
				assert.Equal(t, tt.wantMsg, ae.Message)
			}
		})
	}

	assert.NoError(t, Classify(nil))
}

func TestClassify_AssertionCode(t *testing.T) {
	var ae *domain.ContractAssertionError
	require.ErrorAs(t, Classify(&BridgeError{Status: 500, Body: assertBody}), &ae)
	assert.Equal(t, 3050003, ae.Code)
}

func TestClassify_Idempotent(t *testing.T) {
	once := Classify(errors.New("User canceled request"))
	assert.Equal(t, once, Classify(once))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "", UserMessage(Classify(errors.New("user rejected"))))
	assert.Equal(t, "not enough energy", UserMessage(Classify(&BridgeError{Status: 500, Body: assertBody})))
	assert.Contains(t, UserMessage(domain.ErrOnCooldown), domain.ErrMsgOnCooldown)
}
