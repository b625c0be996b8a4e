package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"verivote/pkg/domain"
	"verivote/pkg/platform/sentinel"
)

var votesBucket = []byte("votes")

// openTimeout bounds how long we wait for bolt's exclusive file lock. Another
// process holding the ledger means we fail fast instead of queueing.
const openTimeout = time.Second

// BoltLedger stores votes in a bbolt file, one JSON-encoded record per
// identity key. The check-and-insert runs inside a single read-write
// transaction, and bolt's exclusive file lock extends the guarantee across
// independent OS processes.
type BoltLedger struct {
	db  *bolt.DB
	log *zap.Logger
}

// NewBoltLedger opens (or creates) the ledger file. An unreadable or
// malformed file is moved aside and replaced with an empty ledger; that
// repair discards unrecoverable history, so it is logged loudly rather than
// swallowed.
func NewBoltLedger(path string, log *zap.Logger) (*BoltLedger, error) {
	db, err := openBolt(path)
	if errors.Is(err, bolt.ErrTimeout) {
		return nil, fmt.Errorf("ledger file locked by another process: %w", sentinel.ErrUnavailable)
	}
	if err != nil {
		quarantine := fmt.Sprintf("%s.corrupt-%d", path, time.Now().Unix())
		if renameErr := os.Rename(path, quarantine); renameErr != nil {
			return nil, fmt.Errorf("open ledger: %w", err)
		}
		log.Error("ledger storage corrupt, reinitializing empty ledger",
			zap.String("path", path),
			zap.String("quarantined", quarantine),
			zap.Error(err))
		db, err = openBolt(path)
		if err != nil {
			return nil, fmt.Errorf("reinitialize ledger: %w", err)
		}
	}
	return &BoltLedger{db: db, log: log}, nil
}

func openBolt(path string) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(votesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (l *BoltLedger) Close() error { return l.db.Close() }

func (l *BoltLedger) Record(_ context.Context, record VoteRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode vote record: %w", err)
	}
	return l.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(votesBucket)
		key := []byte(record.Identity)
		if bucket.Get(key) != nil {
			return ErrDuplicateVote
		}
		return bucket.Put(key, raw)
	})
}

func (l *BoltLedger) HasVoted(_ context.Context, identity domain.Identity) (bool, error) {
	var voted bool
	err := l.db.View(func(tx *bolt.Tx) error {
		voted = tx.Bucket(votesBucket).Get([]byte(identity)) != nil
		return nil
	})
	return voted, err
}

func (l *BoltLedger) List(_ context.Context) ([]VoteRecord, error) {
	var records []VoteRecord
	err := l.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(votesBucket).ForEach(func(key, value []byte) error {
			var record VoteRecord
			if err := json.Unmarshal(value, &record); err != nil {
				return fmt.Errorf("vote record %q: %w", key, sentinel.ErrCorrupted)
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CastAt.Before(records[j].CastAt)
	})
	return records, nil
}

func (l *BoltLedger) ClearAll(_ context.Context) error {
	return l.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(votesBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(votesBucket)
		return err
	})
}
