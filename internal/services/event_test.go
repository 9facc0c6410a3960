package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookinghub/internal/domain"
)

func newEventFixture() (*fakeUserRepo, *fakeEventRepo, domain.EventService) {
	users := newFakeUserRepo()
	events := newFakeEventRepo()
	svc := NewEventService(events, users, 2*time.Second)
	return users, events, svc
}

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("facilitator creates event with defaults", func(t *testing.T) {
		users, _, svc := newEventFixture()
		users.add("fac-1", "fred@example.com", "Fred", domain.RoleFacilitator)

		event := &domain.Event{
			Title:           "Morning Yoga",
			EventType:       "session",
			StartDatetime:   time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
			EndDatetime:     time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
			MaxParticipants: 10,
		}
		created, err := svc.Create(ctx, "fac-1", event)
		require.NoError(t, err)
		assert.Equal(t, "fac-1", created.UserID)
		assert.True(t, created.IsActive)
		assert.Equal(t, 0, created.CurrentParticipants)
		assert.Equal(t, "INR", created.Currency)
		assert.NotEmpty(t, created.ID)
	})

	t.Run("regular user cannot create", func(t *testing.T) {
		users, _, svc := newEventFixture()
		users.add("user-1", "alice@example.com", "Alice", domain.RoleUser)

		_, err := svc.Create(ctx, "user-1", &domain.Event{Title: "Nope"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown caller", func(t *testing.T) {
		_, _, svc := newEventFixture()
		_, err := svc.Create(ctx, "ghost", &domain.Event{Title: "Nope"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestEventService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("owner updates", func(t *testing.T) {
		_, events, svc := newEventFixture()
		events.add("ev-1", "fac-1", 10, 0, true)

		title := "Evening Yoga"
		updated, err := svc.Update(ctx, "ev-1", "fac-1", domain.EventUpdate{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Evening Yoga", updated.Title)
	})

	t.Run("non-owner forbidden", func(t *testing.T) {
		_, events, svc := newEventFixture()
		events.add("ev-1", "fac-1", 10, 0, true)

		title := "Hijacked"
		_, err := svc.Update(ctx, "ev-1", "fac-2", domain.EventUpdate{Title: &title})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("not found", func(t *testing.T) {
		_, _, svc := newEventFixture()
		title := "X"
		_, err := svc.Update(ctx, "ev-missing", "fac-1", domain.EventUpdate{Title: &title})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventService_Deactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deactivates", func(t *testing.T) {
		_, events, svc := newEventFixture()
		events.add("ev-1", "fac-1", 10, 0, true)

		require.NoError(t, svc.Deactivate(ctx, "ev-1", "fac-1"))
		assert.False(t, events.byID["ev-1"].IsActive)
	})

	t.Run("non-owner forbidden", func(t *testing.T) {
		_, events, svc := newEventFixture()
		events.add("ev-1", "fac-1", 10, 0, true)

		err := svc.Deactivate(ctx, "ev-1", "fac-2")
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.True(t, events.byID["ev-1"].IsActive)
	})
}

func TestEventService_ListMine(t *testing.T) {
	ctx := context.Background()

	t.Run("facilitator lists own events", func(t *testing.T) {
		users, events, svc := newEventFixture()
		users.add("fac-1", "fred@example.com", "Fred", domain.RoleFacilitator)
		events.add("ev-1", "fac-1", 10, 0, true)
		events.add("ev-2", "fac-1", 10, 0, false)
		events.add("ev-3", "fac-2", 10, 0, true)

		mine, err := svc.ListMine(ctx, "fac-1")
		require.NoError(t, err)
		assert.Len(t, mine, 2)
	})

	t.Run("regular user forbidden", func(t *testing.T) {
		users, events, svc := newEventFixture()
		users.add("user-1", "alice@example.com", "Alice", domain.RoleUser)
		events.add("ev-1", "user-1", 10, 0, true)

		_, err := svc.ListMine(ctx, "user-1")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown caller forbidden", func(t *testing.T) {
		_, _, svc := newEventFixture()
		_, err := svc.ListMine(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestEventService_ListActive(t *testing.T) {
	ctx := context.Background()

	users, events, svc := newEventFixture()
	users.add("fac-1", "fred@example.com", "Fred", domain.RoleFacilitator)
	events.add("ev-1", "fac-1", 10, 0, true)
	events.add("ev-2", "fac-1", 10, 0, false)

	listings, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "ev-1", listings[0].ID)
	require.NotNil(t, listings[0].Facilitator)
	assert.Equal(t, "Fred", listings[0].Facilitator.Name)
}
