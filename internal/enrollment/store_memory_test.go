package enrollment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verivote/pkg/domain"
)

func testTemplate(identity domain.Identity) Template {
	return Template{
		Identity: identity,
		Face:     []float64{0.1, 0.2, 0.3},
		Iris:     []float64{1, 2, 3, 4},
		Metadata: Metadata{
			NationalID: "123456789012",
			Birthdate:  "2000-01-01",
			EnrolledAt: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestInMemoryStoreEnrollLookup(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	_, err := store.Lookup(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotEnrolled)

	want := testTemplate("alice")
	require.NoError(t, store.Enroll(ctx, want))

	got, err := store.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestInMemoryStoreReEnrollOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	first := testTemplate("bob")
	require.NoError(t, store.Enroll(ctx, first))

	second := first
	second.Face = []float64{9, 9, 9}
	require.NoError(t, store.Enroll(ctx, second))

	got, err := store.Lookup(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 9, 9}, got.Face)
}

func TestInMemoryStoreLookupReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.Enroll(ctx, testTemplate("carol")))

	got, err := store.Lookup(ctx, "carol")
	require.NoError(t, err)
	got.Face[0] = 42

	again, err := store.Lookup(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, 0.1, again.Face[0])
}

func TestInMemoryStoreClearAll(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.Enroll(ctx, testTemplate("dave")))

	require.NoError(t, store.ClearAll(ctx))

	_, err := store.Lookup(ctx, "dave")
	assert.ErrorIs(t, err, ErrNotEnrolled)
}
