// Command verify runs a single verification session from the command line.
// It reads pre-extracted biometric samples from a JSON file and prints the
// session outcome, using the same stores the server would.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"verivote/internal/biometric"
	"verivote/internal/capture"
	"verivote/internal/enrollment"
	"verivote/internal/ledger"
	"verivote/internal/platform/config"
	"verivote/internal/platform/logger"
	"verivote/internal/session"
)

// sampleFile mirrors the vote request body: parallel per-frame arrays.
type sampleFile struct {
	FaceSamples [][]float64 `json:"face_samples"`
	IrisSamples [][]float64 `json:"iris_samples"`
}

func main() {
	identity := flag.String("identity", "", "enrolled identity to verify")
	choice := flag.String("choice", "", "ballot choice to cast on acceptance")
	samplesPath := flag.String("samples", "", "path to a JSON file of captured samples")
	flag.Parse()

	if *identity == "" || *choice == "" || *samplesPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*identity, *choice, *samplesPath); err != nil {
		fmt.Fprintf(os.Stderr, "verify: %v\n", err)
		os.Exit(1)
	}
}

func run(identity, choice, samplesPath string) error {
	cfg := config.Load()
	log, err := logger.New(cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	raw, err := os.ReadFile(samplesPath)
	if err != nil {
		return err
	}
	var samples sampleFile
	if err := json.Unmarshal(raw, &samples); err != nil {
		return fmt.Errorf("parse samples %s: %w", samplesPath, err)
	}

	templates, err := enrollment.NewFileStore(cfg.DataDir)
	if err != nil {
		return err
	}
	votes, err := ledger.NewBoltLedger(filepath.Join(cfg.DataDir, "votes.db"), log)
	if err != nil {
		return err
	}
	defer func() { _ = votes.Close() }()

	bioCfg := biometric.Config{
		FaceMetric:      biometric.Metric(cfg.FaceMetric),
		FaceThreshold:   cfg.FaceThreshold,
		IrisThreshold:   cfg.IrisThreshold,
		IrisMaxDistance: cfg.IrisMaxDistance,
		FaceWeight:      cfg.FaceWeight,
		IrisWeight:      cfg.IrisWeight,
		AcceptThreshold: cfg.AcceptThreshold,
	}
	sessions := session.NewService(bioCfg, cfg.MaxCaptureAttempts, templates, votes,
		capture.NewGuard(), log, nil)

	replay := capture.NewReplay(samples.FaceSamples, samples.IrisSamples)
	result, err := sessions.Verify(context.Background(), identity, choice, replay.Pipeline())
	if err != nil {
		return err
	}

	log.Info("session finished",
		zap.String("state", string(result.State)),
		zap.Bool("accepted", result.Accepted))
	return json.NewEncoder(os.Stdout).Encode(map[string]any{
		"state":          result.State,
		"accepted":       result.Accepted,
		"combined_score": result.CombinedScore,
		"face":           result.Face,
		"iris":           result.Iris,
	})
}
