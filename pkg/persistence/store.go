// Package persistence stores mempool snapshots on disk, one directory
// per UTC calendar day and one file per snapshot, and serves them back
// to the collector and the historical-fee HTTP handler.
package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bitcoinaugur/augurd/pkg/augur"
	"github.com/bitcoinaugur/augurd/pkg/utils"
)

const dayLayout = "2006-01-02"

// snapshotFile is the on-disk JSON shape for a persisted snapshot.
// Bucket indices are serialized as decimal strings because JSON object
// keys are always strings.
type snapshotFile struct {
	BlockHeight     uint32            `json:"block_height"`
	Timestamp       time.Time         `json:"timestamp"`
	BucketedWeights map[string]uint64 `json:"bucketed_weights"`
}

// Store persists and retrieves snapshots under a root directory.
type Store struct {
	root   string
	logger *zap.Logger
}

// New returns a Store rooted at dir. The directory is created if absent.
func New(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot root: %w", err)
	}
	return &Store{root: dir, logger: logger}, nil
}

// Save writes one snapshot file under its UTC calendar-day directory.
func (s *Store) Save(snapshot augur.Snapshot) error {
	ts := snapshot.Timestamp.UTC()
	dayDir := filepath.Join(s.root, ts.Format(dayLayout))
	if err := os.MkdirAll(dayDir, 0o755); err != nil {
		return fmt.Errorf("creating day directory: %w", err)
	}

	file := snapshotFile{
		BlockHeight:     snapshot.BlockHeight,
		Timestamp:       ts,
		BucketedWeights: stringifyBuckets(snapshot.BucketedWeights),
	}
	data, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	name := fmt.Sprintf("%d_%d.json", snapshot.BlockHeight, ts.Unix())
	path := filepath.Join(dayDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot file: %w", err)
	}

	s.logger.Debug("saved snapshot", zap.String("path", path), zap.Uint32("height", snapshot.BlockHeight))
	return nil
}

// Load returns every snapshot whose timestamp lies within [start, end],
// sorted ascending by timestamp.
func (s *Store) Load(start, end time.Time) ([]augur.Snapshot, error) {
	start, end = start.UTC(), end.UTC()

	var snapshots []augur.Snapshot
	for day := start.Truncate(24 * time.Hour); !day.After(end); day = day.AddDate(0, 0, 1) {
		dayDir := filepath.Join(s.root, day.Format(dayLayout))
		entries, err := os.ReadDir(dayDir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading day directory %s: %w", dayDir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			snapshot, err := s.readFile(filepath.Join(dayDir, entry.Name()))
			if err != nil {
				s.logger.Warn("skipping unreadable snapshot file", zap.String("file", entry.Name()), zap.Error(err))
				continue
			}
			if snapshot.Timestamp.Before(start) || snapshot.Timestamp.After(end) {
				continue
			}
			snapshots = append(snapshots, snapshot)
		}
	}

	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].Timestamp.Before(snapshots[j].Timestamp) })
	return snapshots, nil
}

// LatestSnapshot returns the most recent snapshot timestamped within the
// last 24 hours, scanning today's and yesterday's directories. Returns
// nil if there is none in that window, even when older snapshots exist.
func (s *Store) LatestSnapshot() (*augur.Snapshot, error) {
	now := time.Now().UTC()
	snapshots, err := s.Load(now.AddDate(0, 0, -1), now)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, nil
	}
	latest := snapshots[len(snapshots)-1]
	return &latest, nil
}

// Cleanup deletes day directories older than olderThan.
func (s *Store) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().UTC().Add(-olderThan)

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return fmt.Errorf("reading snapshot root: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		day, err := time.ParseInLocation(dayLayout, entry.Name(), time.UTC)
		if err != nil {
			continue
		}
		if day.Before(cutoff) {
			path := filepath.Join(s.root, entry.Name())
			if err := os.RemoveAll(path); err != nil {
				return fmt.Errorf("removing expired directory %s: %w", path, err)
			}
			s.logger.Info("removed expired snapshot directory", zap.String("path", path))
		}
	}
	return nil
}

func (s *Store) readFile(path string) (augur.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return augur.Snapshot{}, err
	}
	defer utils.IgnoreErrorOn(f.Close)

	var file snapshotFile
	if err := json.NewDecoder(f).Decode(&file); err != nil {
		return augur.Snapshot{}, err
	}

	weights := make(map[int]uint64, len(file.BucketedWeights))
	for k, v := range file.BucketedWeights {
		idx, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		weights[idx] = v
	}

	return augur.NewSnapshot(file.BlockHeight, file.Timestamp, weights), nil
}

func stringifyBuckets(weights map[int]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(weights))
	for k, v := range weights {
		out[strconv.Itoa(k)] = v
	}
	return out
}
