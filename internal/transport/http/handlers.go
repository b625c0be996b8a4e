// Package httptransport is the thin HTTP layer over the verification core.
// Handlers decode, delegate to a domain service, and encode; no business
// logic lives here.
package httptransport

import (
	"net/http"
	"slices"
	"time"

	"go.uber.org/zap"

	"verivote/internal/admin"
	"verivote/internal/capture"
	"verivote/internal/eligibility"
	"verivote/internal/enrollment"
	"verivote/internal/ledger"
	"verivote/internal/roster"
	"verivote/internal/session"
	"verivote/internal/tally"
	"verivote/internal/token"
	"verivote/pkg/domain"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	accounts    *roster.Roster
	tokens      *token.Service
	sessions    *session.Service
	enrollments *enrollment.Service
	results     *tally.Service
	admin       *admin.Service
	votes       ledger.Ledger
	choices     []string
	log         *zap.Logger
}

type Config struct {
	Accounts    *roster.Roster
	Tokens      *token.Service
	Sessions    *session.Service
	Enrollments *enrollment.Service
	Results     *tally.Service
	Admin       *admin.Service
	Votes       ledger.Ledger
	Choices     []string
	Logger      *zap.Logger
}

func NewHandler(cfg Config) *Handler {
	return &Handler{
		accounts:    cfg.Accounts,
		tokens:      cfg.Tokens,
		sessions:    cfg.Sessions,
		enrollments: cfg.Enrollments,
		results:     cfg.Results,
		admin:       cfg.Admin,
		votes:       cfg.Votes,
		choices:     cfg.Choices,
		log:         cfg.Logger,
	}
}

type loginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	Role  roster.Role `json:"role"`
	Name  string      `json:"name,omitempty"`
}

// handleVoterLogin authenticates a voter and fails fast on ineligibility or a
// prior vote, so a voter who cannot cast anyway never reaches the booth.
func (h *Handler) handleVoterLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[loginRequest](w, r)
	if !ok {
		return
	}

	voter, err := h.accounts.AuthenticateVoter(req.ID, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	if !eligibility.IsEligible(voter.Birthdate, time.Now()) {
		writeError(w, session.ErrNotEligible)
		return
	}

	identity, err := domain.ParseIdentity(voter.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	voted, err := h.votes.HasVoted(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}
	if voted {
		writeError(w, session.ErrAlreadyVoted)
		return
	}

	signed, err := h.tokens.Generate(voter.ID, roster.RoleVoter)
	if err != nil {
		writeError(w, err)
		return
	}
	h.log.Info("voter logged in", zap.String("voter_id", voter.ID))
	writeJSON(w, http.StatusOK, loginResponse{Token: signed, Role: roster.RoleVoter, Name: voter.Name})
}

func (h *Handler) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[loginRequest](w, r)
	if !ok {
		return
	}

	account, err := h.accounts.AuthenticateAdmin(req.ID, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	signed, err := h.tokens.Generate(account.Username, roster.RoleAdmin)
	if err != nil {
		writeError(w, err)
		return
	}
	h.log.Info("admin logged in", zap.String("username", account.Username))
	writeJSON(w, http.StatusOK, loginResponse{Token: signed, Role: roster.RoleAdmin})
}

// voteRequest carries the ballot choice plus the pre-extracted biometric
// samples, as parallel per-frame arrays: sample i of each modality came from
// the same captured frame. A null entry means the modality detected nothing
// in that frame.
type voteRequest struct {
	Choice      string      `json:"choice"`
	FaceSamples [][]float64 `json:"face_samples"`
	IrisSamples [][]float64 `json:"iris_samples"`
}

type verdictResponse struct {
	Confidence float64 `json:"confidence"`
	Passed     bool    `json:"passed"`
}

type voteResponse struct {
	State         session.State   `json:"state"`
	Accepted      bool            `json:"accepted"`
	CombinedScore float64         `json:"combined_score"`
	Face          verdictResponse `json:"face"`
	Iris          verdictResponse `json:"iris"`
	RecordID      string          `json:"record_id,omitempty"`
}

func (h *Handler) handleVote(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	req, ok := decodeJSON[voteRequest](w, r)
	if !ok {
		return
	}
	if !slices.Contains(h.choices, req.Choice) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:       "bad_request",
			Description: "unknown ballot choice",
		})
		return
	}

	replay := capture.NewReplay(req.FaceSamples, req.IrisSamples)
	result, err := h.sessions.Verify(r.Context(), claims.Subject, req.Choice, replay.Pipeline())
	if err != nil {
		h.log.Warn("verification failed",
			zap.String("voter_id", claims.Subject),
			zap.Error(err))
		writeError(w, err)
		return
	}

	resp := voteResponse{
		State:         result.State,
		Accepted:      result.Accepted,
		CombinedScore: result.CombinedScore,
		Face:          verdictResponse{Confidence: result.Face.Confidence, Passed: result.Face.Passed},
		Iris:          verdictResponse{Confidence: result.Iris.Confidence, Passed: result.Iris.Passed},
	}
	if result.Record != nil {
		resp.RecordID = result.Record.ID.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

type enrollRequest struct {
	ID          string      `json:"id"`
	NationalID  string      `json:"national_id"`
	Birthdate   string      `json:"birthdate"`
	FaceSamples [][]float64 `json:"face_samples"`
	IrisSamples [][]float64 `json:"iris_samples"`
}

type enrollResponse struct {
	Identity   string    `json:"identity"`
	FaceDims   int       `json:"face_dims"`
	IrisDims   int       `json:"iris_dims"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

func (h *Handler) handleEnroll(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[enrollRequest](w, r)
	if !ok {
		return
	}

	replay := capture.NewReplay(req.FaceSamples, req.IrisSamples)
	template, err := h.enrollments.Enroll(r.Context(), req.ID, req.NationalID, req.Birthdate, replay.Pipeline())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, enrollResponse{
		Identity:   template.Identity.String(),
		FaceDims:   len(template.Face),
		IrisDims:   len(template.Iris),
		EnrolledAt: template.Metadata.EnrolledAt,
	})
}

func (h *Handler) handleResults(w http.ResponseWriter, r *http.Request) {
	summary, err := h.results.Results(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleLedgerExport(w http.ResponseWriter, r *http.Request) {
	records, err := h.results.Export(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":   len(records),
		"records": records,
	})
}

func (h *Handler) handleWipe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if err := h.admin.WipeAll(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	h.log.Warn("election data wiped", zap.String("admin", claims.Subject))
	writeJSON(w, http.StatusOK, map[string]bool{"wiped": true})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
