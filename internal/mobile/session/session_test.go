package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreSetAndClear(t *testing.T) {
	store := NewStore()

	_, ok := store.Current()
	assert.False(t, ok)
	assert.False(t, store.SignedIn())

	store.Set(Session{UserID: "u1", Email: "a@b.edu", Admin: false})
	sess, ok := store.Current()
	assert.True(t, ok)
	assert.Equal(t, "u1", sess.UserID)
	assert.True(t, store.SignedIn())

	store.Clear()
	_, ok = store.Current()
	assert.False(t, ok)
}

func TestStoreSetReplacesWholeValue(t *testing.T) {
	store := NewStore()
	store.Set(Session{UserID: "u1", Email: "a@b.edu", DisplayName: "A", Admin: true})

	// A second Set with sparse fields must not keep anything from the first.
	store.Set(Session{UserID: "u2"})

	sess, ok := store.Current()
	assert.True(t, ok)
	assert.Equal(t, "u2", sess.UserID)
	assert.Empty(t, sess.Email)
	assert.Empty(t, sess.DisplayName)
	assert.False(t, sess.Admin)
}

func TestStoreReturnsCopies(t *testing.T) {
	store := NewStore()
	store.Set(Session{UserID: "u1"})

	sess, _ := store.Current()
	sess.UserID = "mutated"

	again, _ := store.Current()
	assert.Equal(t, "u1", again.UserID)
}

func TestIsAdmin(t *testing.T) {
	store := NewStore()
	assert.False(t, store.IsAdmin())

	store.Set(Session{UserID: "u1", Admin: false})
	assert.False(t, store.IsAdmin())

	store.Set(Session{UserID: "u2", Admin: true})
	assert.True(t, store.IsAdmin())

	store.Clear()
	assert.False(t, store.IsAdmin())
}
