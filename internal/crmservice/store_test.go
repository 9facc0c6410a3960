package crmservice

import (
	"strconv"
	"testing"

	"bookinghub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notification(bookingID string) *domain.BookingNotification {
	return &domain.BookingNotification{
		BookingID:     bookingID,
		Action:        domain.ActionPaymentCompleted,
		User:          &domain.PartySummary{ID: "u-1", Name: "Alice", Email: "alice@example.com"},
		Event:         &domain.EventSummary{ID: "ev-1", Title: "Morning Yoga"},
		FacilitatorID: "f-1",
		Status:        domain.BookingStatusConfirmed,
		PaymentStatus: domain.PaymentStatusCompleted,
	}
}

func TestStore_AddAssignsSequentialIDs(t *testing.T) {
	store := NewStore()

	first := store.Add(notification("b-1"))
	second := store.Add(notification("b-2"))

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.False(t, first.ReceivedAt.IsZero())

	records := store.List()
	require.Len(t, records, 2)
	assert.Equal(t, "b-1", records[0].BookingID)
	assert.Equal(t, "b-2", records[1].BookingID)
}

func TestStore_EvictsOldestAtCapacity(t *testing.T) {
	store := NewStore()
	store.capacity = 3

	for i := 1; i <= 4; i++ {
		store.Add(notification("b-" + strconv.Itoa(i)))
	}

	records := store.List()
	require.Len(t, records, 3)
	assert.Equal(t, "b-2", records[0].BookingID)
	assert.Equal(t, "b-4", records[2].BookingID)
	assert.Equal(t, int64(4), records[2].ID)
}

func TestStore_Delete(t *testing.T) {
	store := NewStore()
	rec := store.Add(notification("b-1"))
	store.Add(notification("b-2"))

	require.True(t, store.Delete(rec.ID))
	assert.False(t, store.Delete(rec.ID), "deleting twice")

	records := store.List()
	require.Len(t, records, 1)
	assert.Equal(t, "b-2", records[0].BookingID)
}

func TestStore_ClearKeepsIDSequence(t *testing.T) {
	store := NewStore()
	store.Add(notification("b-1"))
	store.Add(notification("b-2"))

	store.Clear()
	assert.Empty(t, store.List())

	rec := store.Add(notification("b-3"))
	assert.Equal(t, int64(3), rec.ID)
}
