package wallet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/farmclock/internal/domain"
)

func TestBridgeSession_Transact(t *testing.T) {
	var got transactRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathTransact, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"transaction_id":"abc123"}`))
	}))
	defer srv.Close()

	s := NewBridgeSession(srv.URL, "alice.wam")
	receipt, err := s.Transact(context.Background(), []Action{
		NewContractAction("farmersworld", ActionNameWater, s.Actor(), SlotData{Owner: "alice.wam", PlotID: "1001", Slot: 2}),
	})

	require.NoError(t, err)
	assert.Equal(t, "abc123", receipt.TransactionID)
	require.Len(t, got.Actions, 1)
	assert.Equal(t, "water", got.Actions[0].Name)
	assert.Equal(t, []Authorization{{Actor: "alice.wam", Permission: PermissionActive}}, got.Actions[0].Authorization)

	data, ok := got.Actions[0].Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "1001", data["plot_id"])
	assert.Equal(t, float64(2), data["slot"])
}

func TestBridgeSession_Errors(t *testing.T) {
	t.Run("cancel", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"User canceled request"}`))
		}))
		defer srv.Close()

		_, err := NewBridgeSession(srv.URL, "alice.wam").Transact(context.Background(), nil)
		assert.ErrorIs(t, err, domain.ErrUserCancelled)
	})

	t.Run("assertion", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(assertBody))
		}))
		defer srv.Close()

		_, err := NewBridgeSession(srv.URL, "alice.wam").Transact(context.Background(), nil)
		var ae *domain.ContractAssertionError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, "not enough energy", ae.Message)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewBridgeSession(url, "alice.wam").Transact(context.Background(), nil)
		assert.ErrorIs(t, err, domain.ErrNetworkOrIndexerLag)
	})
}

func TestNewTransfer(t *testing.T) {
	a := NewTransfer("farmerstoken", "alice.wam", "farmersworld", TransferData{Quantity: "10.0000 FWG", Memo: "recharge:7"})

	assert.Equal(t, ActionNameTransfer, a.Name)
	data, ok := a.Data.(TransferData)
	require.True(t, ok)
	assert.Equal(t, "alice.wam", data.From)
	assert.Equal(t, "farmersworld", data.To)
	assert.Equal(t, "recharge:7", data.Memo)
	assert.Equal(t, []string{"farmerstoken::transfer"}, Describe([]Action{a}))
}
