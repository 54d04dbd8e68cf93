package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	st, err := ParseOrderStatus("shipped")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, st)

	_, err = ParseOrderStatus("lost")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusDelivered, true},
		{StatusProcessing, StatusShipped, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, true},
		{StatusDelivered, StatusReturning, true},
		{StatusReturning, StatusDelivered, true},
		{StatusReturning, StatusReturned, true},
		{StatusShipped, StatusPending, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusDelivered, StatusReturned, false},
		{StatusReturned, StatusReturned, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusPending, StatusPending, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			got, err := tc.from.Transition(tc.to)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, tc.to, got)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, tc.from, got)
		})
	}
}

func TestTransitionUnknownTarget(t *testing.T) {
	_, err := StatusPending.Transition("teleported")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, StatusReturned.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusDelivered.IsTerminal())
}

func TestCustomerRequests(t *testing.T) {
	assert.True(t, StatusCancelled.IsCustomerRequest())
	assert.True(t, StatusReturning.IsCustomerRequest())
	for _, s := range []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusReturned} {
		assert.False(t, s.IsCustomerRequest(), s)
	}
}
