package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for the biometric decision surface. These mirror the tuning of the
// capture pipeline the reference templates were produced with; every value is
// overridable through the environment so deployments can adjust strictness.
const (
	DefaultFaceThreshold      = 0.6
	DefaultEuclideanThreshold = 1.2
	DefaultIrisThreshold      = 1000.0
	DefaultIrisMaxDistance    = 2000.0
	DefaultFaceWeight         = 0.6
	DefaultIrisWeight         = 0.4
	DefaultAcceptThreshold    = 0.65
	DefaultMaxCaptureAttempts = 150
)

// Config captures everything main needs to wire the service.
type Config struct {
	Addr          string
	Debug         bool
	DataDir       string
	DatabaseURL   string
	RosterPath    string
	JWTSigningKey string
	TokenTTL      time.Duration
	Choices       []string
	AdminUser     string
	AdminPassword string

	FaceMetric         string // "cosine" or "euclidean"
	FaceThreshold      float64
	IrisThreshold      float64
	IrisMaxDistance    float64
	FaceWeight         float64
	IrisWeight         float64
	AcceptThreshold    float64
	MaxCaptureAttempts int
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present, so local runs stay declarative.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:          getenv("VERIVOTE_ADDR", ":8080"),
		Debug:         getenvBool("DEBUG", false),
		DataDir:       getenv("DATA_DIR", "data"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RosterPath:    getenv("ROSTER_PATH", "data/roster.json"),
		JWTSigningKey: getenv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		TokenTTL:      getenvDuration("TOKEN_TTL", time.Hour),
		Choices:       getenvList("BALLOT_CHOICES", []string{"BJP", "Congress", "AAP", "Others"}),
		AdminUser:     getenv("ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		FaceMetric:         getenv("FACE_METRIC", "cosine"),
		FaceThreshold:      getenvFloat("FACE_THRESHOLD", DefaultFaceThreshold),
		IrisThreshold:      getenvFloat("IRIS_THRESHOLD", DefaultIrisThreshold),
		IrisMaxDistance:    getenvFloat("IRIS_MAX_DISTANCE", DefaultIrisMaxDistance),
		FaceWeight:         getenvFloat("FACE_WEIGHT", DefaultFaceWeight),
		IrisWeight:         getenvFloat("IRIS_WEIGHT", DefaultIrisWeight),
		AcceptThreshold:    getenvFloat("ACCEPT_THRESHOLD", DefaultAcceptThreshold),
		MaxCaptureAttempts: getenvInt("MAX_CAPTURE_ATTEMPTS", DefaultMaxCaptureAttempts),
	}

	// The euclidean-embedding pipeline ships with a wider pass band; apply it
	// unless the operator pinned a threshold explicitly.
	if cfg.FaceMetric == "euclidean" && os.Getenv("FACE_THRESHOLD") == "" {
		cfg.FaceThreshold = DefaultEuclideanThreshold
	}

	return cfg
}

// String renders a masked summary safe for startup logs.
func (c Config) String() string {
	return fmt.Sprintf("addr=%s data_dir=%s db=%t face_metric=%s accept_threshold=%.2f",
		c.Addr, c.DataDir, c.DatabaseURL != "", c.FaceMetric, c.AcceptThreshold)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func getenvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getenvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
