package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublishReachesAllHandlersAndJoinsFailures(t *testing.T) {
	d := NewInMemoryDispatcher()

	var seen []string
	boom := errors.New("audit sink down")

	d.Subscribe(EventIdentityLoggedIn, func(ctx context.Context, e Event) error {
		seen = append(seen, "first")
		return boom
	})
	d.Subscribe(EventIdentityLoggedIn, func(ctx context.Context, e Event) error {
		seen = append(seen, "second")
		return nil
	})
	d.Subscribe(EventSessionRevoked, func(ctx context.Context, e Event) error {
		seen = append(seen, "other-type")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventIdentityLoggedIn, IdentityID: "id-1"})

	// The failing first handler must not starve the second one.
	require.Equal(t, []string{"first", "second"}, seen)
	require.ErrorIs(t, err, boom)
}

func TestPublishWithoutListenersIsNoop(t *testing.T) {
	d := NewInMemoryDispatcher()
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventIdentityRegistered}))
}
