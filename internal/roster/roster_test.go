package roster

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRoster(t *testing.T, file rosterFile) string {
	t.Helper()
	raw, err := json.Marshal(file)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "roster.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func testRoster(t *testing.T) *Roster {
	t.Helper()
	path := writeRoster(t, rosterFile{
		Voters: []Voter{{
			ID:           "Alice",
			Name:         "Alice Kumar",
			NationalID:   "123456789012",
			Birthdate:    "1990-05-05",
			PasswordHash: HashPassword("hunter2"),
		}},
		Admins: []Admin{{
			Username:     "admin",
			PasswordHash: HashPassword("letmein"),
		}},
	})
	r, err := Load(path)
	require.NoError(t, err)
	return r
}

func TestAuthenticateVoter(t *testing.T) {
	r := testRoster(t)

	voter, err := r.AuthenticateVoter("alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "Alice Kumar", voter.Name)
	assert.Equal(t, "1990-05-05", voter.Birthdate)

	// Account keys are case-insensitive.
	_, err = r.AuthenticateVoter("ALICE", "hunter2")
	assert.NoError(t, err)
}

func TestAuthenticateVoterRejects(t *testing.T) {
	r := testRoster(t)

	_, err := r.AuthenticateVoter("alice", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = r.AuthenticateVoter("nobody", "hunter2")
	assert.ErrorIs(t, err, ErrBadCredentials)

	// Passwords are not valid across account classes.
	_, err = r.AuthenticateVoter("admin", "letmein")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestAuthenticateAdmin(t *testing.T) {
	r := testRoster(t)

	admin, err := r.AuthenticateAdmin("Admin", "letmein")
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)

	_, err = r.AuthenticateAdmin("admin", "hunter2")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestSeedAdmin(t *testing.T) {
	r := testRoster(t)

	// Seeding never overrides an account from the roster file.
	r.SeedAdmin("admin", "other-password")
	_, err := r.AuthenticateAdmin("admin", "other-password")
	assert.ErrorIs(t, err, ErrBadCredentials)

	r.SeedAdmin("operator", "s3cret")
	admin, err := r.AuthenticateAdmin("operator", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "operator", admin.Username)
}

func TestLoadRejectsDuplicates(t *testing.T) {
	path := writeRoster(t, rosterFile{Voters: []Voter{
		{ID: "alice", PasswordHash: HashPassword("a")},
		{ID: " ALICE ", PasswordHash: HashPassword("b")},
	}})
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate roster voter")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
