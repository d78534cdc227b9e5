package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantinapp/kantin-gateway/internal/cart"
	"github.com/kantinapp/kantin-gateway/internal/menu"
	"github.com/kantinapp/kantin-gateway/internal/upstream"
	"github.com/kantinapp/kantin-gateway/pkg/errors"
)

type stubSubmitter struct {
	lines []upstream.OrderLineInput
	ack   any
	err   error
}

func (s *stubSubmitter) SubmitOrder(_ context.Context, _ string, lines []upstream.OrderLineInput) (any, error) {
	s.lines = lines
	if s.err != nil {
		return nil, s.err
	}
	return s.ack, nil
}

func seededStore(t *testing.T) *cart.Store {
	t.Helper()
	store := cart.NewStore("siswa:1", cart.NewMemoryPersister(), nil)
	store.AddItem(context.Background(), menu.Entry{MenuID: 1, Name: "Nasi Goreng", Price: 20000}, 1)
	store.AddItem(context.Background(), menu.Entry{MenuID: 2, Name: "Es Teh", Price: 5000}, 3)
	return store
}

func TestSubmitPlacesOrderAndResetsCart(t *testing.T) {
	submitter := &stubSubmitter{ack: map[string]any{"message": "sukses"}}
	svc, err := NewService(submitter, nil)
	require.NoError(t, err)

	store := seededStore(t)
	result, err := svc.Submit(context.Background(), "token", store)
	require.NoError(t, err)

	assert.Equal(t, 2, result.LineCount)
	assert.Equal(t, 4, result.TotalQty)
	assert.Equal(t, 35000.0, result.TotalPrice)
	assert.Equal(t, []upstream.OrderLineInput{{MenuID: 1, Qty: 1}, {MenuID: 2, Qty: 3}}, submitter.lines)
	assert.Empty(t, store.Lines())
}

func TestSubmitEmptyCartRejected(t *testing.T) {
	submitter := &stubSubmitter{}
	svc, err := NewService(submitter, nil)
	require.NoError(t, err)

	store := cart.NewStore("siswa:1", cart.NewMemoryPersister(), nil)
	_, err = svc.Submit(context.Background(), "token", store)
	require.Error(t, err)
	assert.Equal(t, errors.CodeValidation, errors.As(err).Code())
	assert.Nil(t, submitter.lines)
}

func TestSubmitFailureKeepsCart(t *testing.T) {
	submitter := &stubSubmitter{err: errors.New(errors.CodeUpstream, "pesan failed")}
	svc, err := NewService(submitter, nil)
	require.NoError(t, err)

	store := seededStore(t)
	_, err = svc.Submit(context.Background(), "token", store)
	require.Error(t, err)
	assert.Len(t, store.Lines(), 2)
}
