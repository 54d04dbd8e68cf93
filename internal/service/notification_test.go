package service

import (
	"context"
	"testing"

	"food_app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationInbox(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := mustUser(t, s, "fay", domain.RoleUser)
	other := mustUser(t, s, "gus", domain.RoleUser)

	require.NoError(t, s.notifications.Notify(ctx, u.ID, "First", "one"))
	require.NoError(t, s.notifications.Notify(ctx, u.ID, "Second", "two"))
	require.NoError(t, s.notifications.Notify(ctx, other.ID, "Other", "three"))

	list, err := s.notifications.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Title)

	require.NoError(t, s.notifications.MarkRead(ctx, list[0].ID))
	require.NoError(t, s.notifications.MarkRead(ctx, list[0].ID))
	assert.ErrorIs(t, s.notifications.MarkRead(ctx, 9999), ErrNotificationNotFound)

	n, err := s.notifications.MarkAllRead(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	list, err = s.notifications.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	for _, note := range list {
		assert.True(t, note.IsRead)
	}
	others, err := s.notifications.ListByUser(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.False(t, others[0].IsRead)
}

func TestDescribeItems(t *testing.T) {
	assert.Equal(t, "Your order", describeItems(nil))
	assert.Equal(t, "Pho", describeItems([]domain.OrderItem{{Name: "Pho"}}))
	assert.Equal(t, "Pho and 1 other item", describeItems([]domain.OrderItem{{Name: "Pho"}, {Name: "Tea"}}))
	assert.Equal(t, "Pho and 2 other items", describeItems([]domain.OrderItem{{Name: "Pho"}, {Name: "Tea"}, {Name: "Bun"}}))
}

func TestStatusNotice(t *testing.T) {
	cases := []struct {
		next, prev domain.OrderStatus
		refunded   bool
		title      string
	}{
		{domain.StatusProcessing, domain.StatusPending, false, "Order is being processed"},
		{domain.StatusShipped, domain.StatusProcessing, false, "Order is on its way"},
		{domain.StatusDelivered, domain.StatusShipped, false, "Order delivered successfully"},
		{domain.StatusDelivered, domain.StatusReturning, false, "Return request rejected"},
		{domain.StatusReturning, domain.StatusDelivered, false, "Return request received"},
		{domain.StatusReturned, domain.StatusReturning, true, "Order returned"},
		{domain.StatusCancelled, domain.StatusPending, false, "Order cancelled"},
	}
	for _, tc := range cases {
		title, msg, ok := statusNotice(tc.next, tc.prev, "Pho", tc.refunded)
		require.True(t, ok, tc.title)
		assert.Equal(t, tc.title, title)
		assert.Contains(t, msg, "Pho")
	}

	_, msg, _ := statusNotice(domain.StatusReturned, domain.StatusReturning, "Pho", false)
	assert.NotContains(t, msg, "refunded")

	_, _, ok := statusNotice(domain.StatusPending, domain.StatusPending, "Pho", false)
	assert.False(t, ok)
}
