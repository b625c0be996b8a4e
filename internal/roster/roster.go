// Package roster loads the registered voter and admin accounts from a JSON
// file and authenticates login attempts. Enrollment biometrics live elsewhere;
// the roster only answers who may log in and with which role.
package roster

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"verivote/pkg/platform/sentinel"
)

// ErrBadCredentials covers both unknown accounts and wrong passwords so a
// login response never reveals which of the two failed.
var ErrBadCredentials = fmt.Errorf("invalid credentials: %w", sentinel.ErrNotFound)

// Role distinguishes the two account classes in issued tokens.
type Role string

const (
	RoleVoter Role = "voter"
	RoleAdmin Role = "admin"
)

// Voter is one registered account. ID doubles as the enrollment identity, so
// it follows the same normalization rules.
type Voter struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	NationalID   string `json:"national_id"`
	Birthdate    string `json:"birthdate"` // YYYY-MM-DD
	PasswordHash string `json:"password_hash"`
}

// Admin is an operator account with access to results, export and wipe.
type Admin struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
}

type rosterFile struct {
	Voters []Voter `json:"voters"`
	Admins []Admin `json:"admins"`
}

// Roster is the loaded account set. It is immutable after Load; edits to the
// roster file require a restart.
type Roster struct {
	voters map[string]Voter
	admins map[string]Admin
}

// Load reads and indexes a roster file. Account keys are case-insensitive.
func Load(path string) (*Roster, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", path, err)
	}

	var file rosterFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse roster %s: %w", path, err)
	}

	r := &Roster{
		voters: make(map[string]Voter, len(file.Voters)),
		admins: make(map[string]Admin, len(file.Admins)),
	}
	for _, voter := range file.Voters {
		key := normalize(voter.ID)
		if key == "" {
			return nil, errors.New("roster voter with empty id")
		}
		if _, exists := r.voters[key]; exists {
			return nil, fmt.Errorf("duplicate roster voter %q", key)
		}
		r.voters[key] = voter
	}
	for _, admin := range file.Admins {
		key := normalize(admin.Username)
		if key == "" {
			return nil, errors.New("roster admin with empty username")
		}
		if _, exists := r.admins[key]; exists {
			return nil, fmt.Errorf("duplicate roster admin %q", key)
		}
		r.admins[key] = admin
	}
	return r, nil
}

// SeedAdmin registers a default operator account unless the roster file
// already defines one under the same username. Used to bootstrap a fresh
// deployment from the environment before any roster edits.
func (r *Roster) SeedAdmin(username, password string) {
	key := normalize(username)
	if key == "" {
		return
	}
	if _, exists := r.admins[key]; exists {
		return
	}
	r.admins[key] = Admin{Username: key, PasswordHash: HashPassword(password)}
}

// AuthenticateVoter checks a voter login. Password hashing happens before the
// account lookup so unknown and known accounts take the same code path.
func (r *Roster) AuthenticateVoter(id, password string) (Voter, error) {
	attempt := HashPassword(password)
	voter, ok := r.voters[normalize(id)]
	if !ok || !hashEqual(attempt, voter.PasswordHash) {
		return Voter{}, ErrBadCredentials
	}
	return voter, nil
}

// AuthenticateAdmin checks an operator login.
func (r *Roster) AuthenticateAdmin(username, password string) (Admin, error) {
	attempt := HashPassword(password)
	admin, ok := r.admins[normalize(username)]
	if !ok || !hashEqual(attempt, admin.PasswordHash) {
		return Admin{}, ErrBadCredentials
	}
	return admin, nil
}

// Voters returns how many voter accounts are registered.
func (r *Roster) Voters() int { return len(r.voters) }

// HashPassword returns the hex SHA-256 digest stored in roster files.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func hashEqual(attempt, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(attempt), []byte(strings.ToLower(stored))) == 1
}

func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
