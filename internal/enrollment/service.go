package enrollment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"verivote/internal/biometric"
	"verivote/internal/capture"
	"verivote/internal/eligibility"
	"verivote/internal/platform/metrics"
	"verivote/pkg/domain"
)

var (
	// ErrCaptureIncomplete is returned when a modality produced no usable
	// sample within the attempt budget. Nothing is written in that case; an
	// identity is enrolled with both templates or not at all.
	ErrCaptureIncomplete = errors.New("capture incomplete")

	ErrInvalidBirthdate = errors.New("invalid birthdate")
)

// Service drives capture-based enrollment: pull frames from the collaborator,
// extract one template per modality, and persist both plus the metadata in a
// single store write.
type Service struct {
	store    Store
	camera   *capture.Guard
	attempts int
	log      *zap.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(store Store, camera *capture.Guard, attempts int, log *zap.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:    store,
		camera:   camera,
		attempts: attempts,
		log:      log,
		metrics:  m,
		now:      time.Now,
	}
}

// Enroll captures both templates for an identity and stores them. It
// overwrites a prior enrollment; callers that forbid re-enrollment must check
// Lookup first.
func (s *Service) Enroll(ctx context.Context, rawIdentity, nationalID, birthdate string, pipeline capture.Pipeline) (Template, error) {
	identity, err := domain.ParseIdentity(rawIdentity)
	if err != nil {
		return Template{}, err
	}
	if _, err := time.Parse(eligibility.DateLayout, birthdate); err != nil {
		return Template{}, fmt.Errorf("%w: want YYYY-MM-DD", ErrInvalidBirthdate)
	}

	release, err := s.camera.TryAcquire()
	if err != nil {
		return Template{}, err
	}
	defer release()

	face, err := s.captureFace(ctx, pipeline)
	if err != nil {
		return Template{}, err
	}
	iris, err := s.captureIris(ctx, pipeline)
	if err != nil {
		return Template{}, err
	}

	template := Template{
		Identity: identity,
		Face:     face,
		Iris:     iris,
		Metadata: Metadata{
			NationalID: nationalID,
			Birthdate:  birthdate,
			EnrolledAt: s.now(),
		},
	}
	if err := s.store.Enroll(ctx, template); err != nil {
		return Template{}, fmt.Errorf("store enrollment: %w", err)
	}

	s.metrics.RecordEnrollment()
	s.log.Info("identity enrolled",
		zap.String("identity", identity.String()),
		zap.Int("face_dims", len(face)),
		zap.Int("iris_dims", len(iris)))
	return template, nil
}

func (s *Service) captureFace(ctx context.Context, pipeline capture.Pipeline) ([]float64, error) {
	for range s.attempts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame, err := pipeline.Frames.Next(ctx)
		if errors.Is(err, capture.ErrExhausted) {
			break
		}
		if err != nil {
			return nil, err
		}
		if features, ok := pipeline.Face.ExtractFace(frame); ok && len(features) > 0 {
			return features, nil
		}
	}
	return nil, fmt.Errorf("%w: no face detected", ErrCaptureIncomplete)
}

func (s *Service) captureIris(ctx context.Context, pipeline capture.Pipeline) ([]float64, error) {
	for range s.attempts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame, err := pipeline.Frames.Next(ctx)
		if errors.Is(err, capture.ErrExhausted) {
			break
		}
		if err != nil {
			return nil, err
		}
		features, ok := pipeline.Iris.ExtractIris(frame)
		if !ok {
			continue
		}
		// Only a full 140-element vector may ever become a template.
		if biometric.ValidIrisFeatures(features) {
			return features, nil
		}
		s.log.Debug("discarding malformed iris sample", zap.Int("dims", len(features)))
	}
	return nil, fmt.Errorf("%w: no iris features extracted", ErrCaptureIncomplete)
}
