package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/gitstatus/status"
)

func TestStoreGetSetClear(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.Get())

	snap := &status.Snapshot{Branch: "main"}
	s.Set(snap)
	assert.Same(t, snap, s.Get())

	s.Clear()
	assert.Nil(t, s.Get())
}

func TestStoreSubscribe(t *testing.T) {
	s := NewStore()
	ch := s.Subscribe()

	snap := &status.Snapshot{Branch: "dev"}
	s.Set(snap)

	u := <-ch
	require.NotNil(t, u.Snapshot)
	assert.Equal(t, "dev", u.Snapshot.Branch)

	s.Clear()
	u = <-ch
	assert.Nil(t, u.Snapshot, "clear is broadcast as a nil snapshot")

	s.Unsubscribe(ch)
	_, open := <-ch
	assert.False(t, open)
}

func TestStoreSlowSubscriberDoesNotBlock(t *testing.T) {
	s := NewStore()
	ch := s.Subscribe()
	defer s.Unsubscribe(ch)

	// Overflow the buffered channel; Set must never stall.
	for i := 0; i < 100; i++ {
		s.Set(&status.Snapshot{Ahead: i})
	}
	assert.NotNil(t, s.Get())
}
