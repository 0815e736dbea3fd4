package ratings_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globalratings/ratingmap/internal/ratings"
)

func TestSessionStore_PutAndGet(t *testing.T) {
	store := ratings.NewSessionStore(10, time.Hour)
	upload := &ratings.Upload{ID: "upl_test1", CreatedAt: time.Now().UTC()}

	store.Put(upload)

	got, ok := store.Get("upl_test1")
	require.True(t, ok)
	assert.Equal(t, upload.ID, got.ID)
}

func TestSessionStore_UnknownID(t *testing.T) {
	store := ratings.NewSessionStore(10, time.Hour)

	_, ok := store.Get("upl_missing")
	assert.False(t, ok)
}

func TestSessionStore_Delete(t *testing.T) {
	store := ratings.NewSessionStore(10, time.Hour)
	store.Put(&ratings.Upload{ID: "upl_gone"})

	store.Delete("upl_gone")

	_, ok := store.Get("upl_gone")
	assert.False(t, ok)
}

func TestSessionStore_ZeroValuesUseDefaults(t *testing.T) {
	store := ratings.NewSessionStore(0, 0)
	store.Put(&ratings.Upload{ID: "upl_defaults"})

	_, ok := store.Get("upl_defaults")
	assert.True(t, ok)
}
