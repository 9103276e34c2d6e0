package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"DocketWatch/internal/dedup"
	"DocketWatch/internal/ports"
)

const lockRetryDelay = 50 * time.Millisecond

// FileStore keeps the seen set in a JSON Lines file guarded by an advisory
// lock on a sibling ".lock" file.
type FileStore struct {
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

var _ ports.SeenStore = (*FileStore)(nil)

// NewFileStore binds the store to path. The file need not exist yet.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logger.With("component", "seenstore.file", "path", path),
	}
}

// Load reads the snapshot under a shared lock. A missing file is an empty set.
func (s *FileStore) Load(ctx context.Context) (dedup.SeenSet, error) {
	if err := s.ensureDir(); err != nil {
		return dedup.SeenSet{}, err
	}
	locked, err := s.lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return dedup.SeenSet{}, fmt.Errorf("lock seen set: %w", err)
	}
	if !locked {
		return dedup.SeenSet{}, fmt.Errorf("lock seen set: not acquired")
	}
	defer s.unlock()

	return s.read()
}

// Save merges next into whatever is on disk and replaces the file atomically.
// Keys written by concurrent runs since Load are kept.
func (s *FileStore) Save(ctx context.Context, next dedup.SeenSet) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock seen set: %w", err)
	}
	if !locked {
		return fmt.Errorf("lock seen set: not acquired")
	}
	defer s.unlock()

	current, err := s.read()
	if err != nil {
		return err
	}
	merged := current.Union(next)

	if err := s.writeAtomic(merged); err != nil {
		return err
	}
	s.logger.Debug("seen set saved", "keys", merged.Len(), "added", merged.Len()-current.Len())
	return nil
}

func (s *FileStore) read() (dedup.SeenSet, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return dedup.NewSeenSet(), nil
	}
	if err != nil {
		return dedup.SeenSet{}, fmt.Errorf("open seen set: %w", err)
	}
	defer f.Close()

	set, err := dedup.Decode(f)
	if err != nil {
		return dedup.SeenSet{}, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return set, nil
}

func (s *FileStore) writeAtomic(set dedup.SeenSet) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if err := set.Encode(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write seen set: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync seen set: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close seen set: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace seen set: %w", err)
	}
	committed = true

	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

func (s *FileStore) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create seen set dir: %w", err)
	}
	return nil
}

func (s *FileStore) unlock() {
	if err := s.lock.Unlock(); err != nil {
		s.logger.Warn("unlock seen set", "error", err)
	}
}
