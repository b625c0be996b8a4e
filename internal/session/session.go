// Package session drives one verification attempt end to end: eligibility
// gating, bounded capture for both modalities, score fusion, and the ledger
// write. One Service instance is shared; each Verify call is an independent
// session.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"verivote/internal/biometric"
	"verivote/internal/capture"
	"verivote/internal/eligibility"
	"verivote/internal/enrollment"
	"verivote/internal/ledger"
	"verivote/internal/platform/metrics"
	"verivote/pkg/domain"
)

var (
	// ErrNotEligible is surfaced before any capture attempt so no biometric
	// data is collected from a person who cannot vote anyway.
	ErrNotEligible = errors.New("not eligible to vote")

	// ErrAlreadyVoted covers both the pre-capture ledger check and a lost
	// atomic insert race. Duplicate prevention always wins over an accepted
	// biometric decision.
	ErrAlreadyVoted = errors.New("identity has already voted")
)

// State names a session phase. Terminal states are StateDone, StateRejected
// and StateTimedOut; TimedOut is equivalent to Rejected for callers.
type State string

const (
	StateIdle          State = "idle"
	StateGating        State = "gating"
	StateCapturingFace State = "capturing_face"
	StateCapturingIris State = "capturing_iris"
	StateFusing        State = "fusing"
	StateRecording     State = "recording"
	StateDone          State = "done"
	StateRejected      State = "rejected"
	StateTimedOut      State = "timed_out"
)

// Result is the terminal report of one verification session. The combined
// score is always populated on a fusion decision so rejections can be
// reported transparently.
type Result struct {
	State         State
	Accepted      bool
	CombinedScore float64
	Face          biometric.Verdict
	Iris          biometric.Verdict
	FaceAttempts  int
	IrisAttempts  int
	Record        *ledger.VoteRecord
}

// Service orchestrates verification sessions over the shared stores.
type Service struct {
	cfg       biometric.Config
	matcher   *biometric.Matcher
	templates enrollment.Store
	votes     ledger.Ledger
	camera    *capture.Guard
	attempts  int
	log       *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewService(
	cfg biometric.Config,
	attempts int,
	templates enrollment.Store,
	votes ledger.Ledger,
	camera *capture.Guard,
	log *zap.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		cfg:       cfg,
		matcher:   biometric.NewMatcher(cfg),
		templates: templates,
		votes:     votes,
		camera:    camera,
		attempts:  attempts,
		log:       log,
		metrics:   m,
		now:       time.Now,
	}
}

// Verify runs one full session for the identity and, on an accepted fusion
// decision, commits the vote. The context cancels the session at any capture
// boundary; once the ledger write commits the vote is final.
func (s *Service) Verify(ctx context.Context, rawIdentity, choice string, pipeline capture.Pipeline) (Result, error) {
	identity, err := domain.ParseIdentity(rawIdentity)
	if err != nil {
		return Result{State: StateIdle}, err
	}
	log := s.log.With(zap.String("identity", identity.String()))

	// Gating: enrollment, age, and prior vote are all checked before the
	// camera is touched.
	template, err := s.templates.Lookup(ctx, identity)
	if err != nil {
		return Result{State: StateGating}, err
	}
	if !eligibility.IsEligible(template.Metadata.Birthdate, s.now()) {
		s.metrics.RecordVerification("not_eligible")
		return Result{State: StateGating}, ErrNotEligible
	}
	voted, err := s.votes.HasVoted(ctx, identity)
	if err != nil {
		return Result{State: StateGating}, fmt.Errorf("check ledger: %w", err)
	}
	if voted {
		s.metrics.RecordVerification("already_voted")
		return Result{State: StateGating}, ErrAlreadyVoted
	}

	release, err := s.camera.TryAcquire()
	if err != nil {
		return Result{State: StateGating}, err
	}

	face, iris, captureErr := s.capturePhases(ctx, template, pipeline)
	release()
	if captureErr != nil {
		return Result{State: StateTimedOut}, captureErr
	}

	result := Result{
		Face:         face.verdict,
		Iris:         iris.verdict,
		FaceAttempts: face.attempts,
		IrisAttempts: iris.attempts,
	}
	s.metrics.ObserveCaptureAttempts(string(biometric.ModalityFace), face.attempts)
	s.metrics.ObserveCaptureAttempts(string(biometric.ModalityIris), iris.attempts)

	// A session where no frame in either window yielded a comparable sample
	// timed out: there is nothing meaningful to fuse.
	if !face.compared && !iris.compared {
		result.State = StateTimedOut
		s.metrics.RecordVerification("timed_out")
		log.Info("verification timed out with no comparable samples")
		return result, nil
	}

	fusion := biometric.Fuse(face.verdict, iris.verdict, s.cfg)
	result.CombinedScore = fusion.CombinedScore
	s.metrics.ObserveCombinedScore(fusion.CombinedScore)

	if !fusion.Accepted {
		result.State = StateRejected
		s.metrics.RecordVerification("rejected")
		log.Info("verification rejected",
			zap.Float64("combined_score", fusion.CombinedScore),
			zap.Bool("face_passed", face.verdict.Passed),
			zap.Bool("iris_passed", iris.verdict.Passed))
		return result, nil
	}
	result.Accepted = true

	record := ledger.VoteRecord{
		ID:            uuid.New(),
		Identity:      identity,
		Choice:        choice,
		CombinedScore: fusion.CombinedScore,
		FacePassed:    face.verdict.Passed,
		IrisPassed:    iris.verdict.Passed,
		CastAt:        s.now(),
	}
	if err := s.votes.Record(ctx, record); err != nil {
		if errors.Is(err, ledger.ErrDuplicateVote) {
			// Lost the race against a concurrent session for this identity.
			result.State = StateRejected
			s.metrics.RecordDuplicateRace()
			s.metrics.RecordVerification("duplicate_race")
			log.Warn("accepted verification lost the ledger race",
				zap.Float64("combined_score", fusion.CombinedScore))
			return result, fmt.Errorf("%w: concurrent session recorded first", ErrAlreadyVoted)
		}
		return result, fmt.Errorf("record vote: %w", err)
	}

	result.State = StateDone
	result.Record = &record
	s.metrics.RecordVote()
	s.metrics.RecordVerification("accepted")
	log.Info("vote recorded",
		zap.String("record_id", record.ID.String()),
		zap.Float64("combined_score", fusion.CombinedScore))
	return result, nil
}

// phaseOutcome is one modality's capture window result. compared reports
// whether any sample was actually matched against the template; without it a
// zero verdict could not be told apart from a confident failure.
type phaseOutcome struct {
	verdict  biometric.Verdict
	attempts int
	compared bool
}

func (s *Service) capturePhases(ctx context.Context, template enrollment.Template, pipeline capture.Pipeline) (face, iris phaseOutcome, err error) {
	face, err = s.captureModality(ctx, biometric.ModalityFace, template.Face, pipeline)
	if err != nil {
		return face, iris, err
	}
	iris, err = s.captureModality(ctx, biometric.ModalityIris, template.Iris, pipeline)
	return face, iris, err
}

// captureModality pulls one live sample per iteration and keeps the best
// verdict seen. The first passing verdict ends the phase early: this is
// any-match-in-window semantics, so the confidence reported for a passing
// modality is the first passing sample's, not the best of the whole window.
func (s *Service) captureModality(ctx context.Context, modality biometric.Modality, stored []float64, pipeline capture.Pipeline) (phaseOutcome, error) {
	var out phaseOutcome
	for out.attempts < s.attempts {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		frame, err := pipeline.Frames.Next(ctx)
		if errors.Is(err, capture.ErrExhausted) {
			break
		}
		if err != nil {
			return out, fmt.Errorf("capture %s frame: %w", modality, err)
		}
		out.attempts++

		live, ok := extract(pipeline, modality, frame)
		if !ok {
			continue
		}
		out.compared = true
		verdict := s.matcher.Match(modality, live, stored)
		if verdict.Confidence > out.verdict.Confidence {
			out.verdict = verdict
		}
		if verdict.Passed {
			out.verdict = verdict
			return out, nil
		}
	}
	return out, nil
}

func extract(pipeline capture.Pipeline, modality biometric.Modality, frame capture.Frame) ([]float64, bool) {
	if modality == biometric.ModalityFace {
		return pipeline.Face.ExtractFace(frame)
	}
	return pipeline.Iris.ExtractIris(frame)
}
