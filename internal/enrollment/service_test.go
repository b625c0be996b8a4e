package enrollment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verivote/internal/biometric"
	"verivote/internal/capture"
	"verivote/internal/platform/logger"
	"verivote/pkg/domain"
)

func newService(store Store) *Service {
	return NewService(store, capture.NewGuard(), 10, logger.NewNop(), nil)
}

func irisSample() []float64 {
	return make([]float64, biometric.IrisFeatureLength)
}

func TestServiceEnroll(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	svc := newService(store)

	replay := capture.NewReplay(
		[][]float64{nil, {0.1, 0.2, 0.3}},
		[][]float64{nil, nil, irisSample()},
	)

	template, err := svc.Enroll(ctx, "  John Doe ", "123456789012", "2000-01-01", replay.Pipeline())
	require.NoError(t, err)
	assert.Equal(t, domain.Identity("john doe"), template.Identity)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, template.Face)
	assert.Len(t, template.Iris, biometric.IrisFeatureLength)
	assert.False(t, template.Metadata.EnrolledAt.IsZero())

	stored, err := store.Lookup(ctx, "john doe")
	require.NoError(t, err)
	assert.Equal(t, template.Face, stored.Face)
}

func TestServiceEnrollNoFaceDetected(t *testing.T) {
	store := NewInMemoryStore()
	svc := newService(store)

	replay := capture.NewReplay([][]float64{nil, nil}, [][]float64{irisSample()})
	_, err := svc.Enroll(context.Background(), "alice", "id", "2000-01-01", replay.Pipeline())
	require.ErrorIs(t, err, ErrCaptureIncomplete)

	// Partial extraction must leave nothing behind.
	_, err = store.Lookup(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestServiceEnrollRejectsMalformedIris(t *testing.T) {
	store := NewInMemoryStore()
	svc := newService(store)

	// Face extracts fine but every iris sample has the wrong length.
	short := make([]float64, biometric.IrisFeatureLength-1)
	replay := capture.NewReplay(
		[][]float64{{1, 2, 3}},
		[][]float64{nil, short, short},
	)

	_, err := svc.Enroll(context.Background(), "bob", "id", "2000-01-01", replay.Pipeline())
	require.ErrorIs(t, err, ErrCaptureIncomplete)

	_, err = store.Lookup(context.Background(), "bob")
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestServiceEnrollInvalidBirthdate(t *testing.T) {
	svc := newService(NewInMemoryStore())
	replay := capture.NewReplay([][]float64{{1}}, [][]float64{irisSample()})

	_, err := svc.Enroll(context.Background(), "carol", "id", "01/01/2000", replay.Pipeline())
	assert.ErrorIs(t, err, ErrInvalidBirthdate)
}

func TestServiceEnrollInvalidIdentity(t *testing.T) {
	svc := newService(NewInMemoryStore())
	replay := capture.NewReplay(nil, nil)

	_, err := svc.Enroll(context.Background(), "  ", "id", "2000-01-01", replay.Pipeline())
	assert.ErrorIs(t, err, domain.ErrInvalidIdentity)
}

func TestServiceEnrollCameraBusy(t *testing.T) {
	guard := capture.NewGuard()
	svc := NewService(NewInMemoryStore(), guard, 10, logger.NewNop(), nil)

	release, err := guard.TryAcquire()
	require.NoError(t, err)
	defer release()

	replay := capture.NewReplay([][]float64{{1}}, [][]float64{irisSample()})
	_, err = svc.Enroll(context.Background(), "dave", "id", "2000-01-01", replay.Pipeline())
	assert.ErrorIs(t, err, capture.ErrBusy)
}
