// Package storage persists uploaded artifacts on local disk as
// time-bounded, self-deleting files. Storage names are freshly generated
// per upload and bear no relation to the uploader-chosen filename beyond
// the preserved extension.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrTooLarge     = errors.New("file size exceeds the configured maximum")
	ErrMissingField = errors.New("missing required upload field")
	ErrNotFound     = errors.New("artifact not found")
)

// Extensions are kept so downstream viewers can infer a content type,
// but anything that doesn't look like a plain extension is dropped.
var extPattern = regexp.MustCompile(`^\.[A-Za-z0-9]{1,10}$`)

// Artifact describes one stored upload.
type Artifact struct {
	StoredName   string
	OriginalName string
	RoomID       string
	Size         int64
	UploadedAt   time.Time
}

type LocalStorage struct {
	basePath    string
	maxFileSize int64
	retention   time.Duration
	logger      *zap.SugaredLogger

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

func NewLocalStorage(dir string, maxFileSize int64, retention time.Duration, logger *zap.SugaredLogger) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	return &LocalStorage{
		basePath:    dir,
		maxFileSize: maxFileSize,
		retention:   retention,
		logger:      logger,
		timers:      make(map[string]*time.Timer),
	}, nil
}

// Save persists the uploaded file under a generated storage name and
// schedules its unconditional deletion one retention window from now.
func (s *LocalStorage) Save(fileHeader *multipart.FileHeader, roomID string) (*Artifact, error) {
	if roomID == "" {
		return nil, ErrMissingField
	}
	if fileHeader.Size > s.maxFileSize {
		return nil, ErrTooLarge
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !extPattern.MatchString(ext) {
		ext = ""
	}
	storedName := uuid.NewString() + ext
	fullPath := filepath.Join(s.basePath, storedName)

	dst, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(fullPath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(fullPath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	s.scheduleDeletion(storedName)

	return &Artifact{
		StoredName:   storedName,
		OriginalName: fileHeader.Filename,
		RoomID:       roomID,
		Size:         fileHeader.Size,
		UploadedAt:   time.Now(),
	}, nil
}

// Resolve maps a storage name to its on-disk path. Malformed names and
// expired or unknown artifacts are reported alike as ErrNotFound.
func (s *LocalStorage) Resolve(storedName string) (string, error) {
	if storedName == "" || storedName != filepath.Base(storedName) ||
		storedName == "." || storedName == ".." {
		return "", ErrNotFound
	}

	fullPath := filepath.Join(s.basePath, storedName)
	if _, err := os.Stat(fullPath); err != nil {
		return "", ErrNotFound
	}

	return fullPath, nil
}

// CleanupExpired removes artifacts whose modification time is older than
// the retention window. The per-artifact timers are the primary deletion
// mechanism; this covers files orphaned by a previous process.
func (s *LocalStorage) CleanupExpired() (int, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return 0, fmt.Errorf("failed to read uploads directory: %w", err)
	}

	cutoff := time.Now().Add(-s.retention)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(s.basePath, entry.Name())); err != nil {
			s.logger.Warnw("failed to remove expired artifact", "name", entry.Name(), "error", err)
			continue
		}

		s.cancelTimer(entry.Name())
		removed++
	}

	return removed, nil
}

// Close stops all pending deletion timers. Files are left in place;
// the next process's startup sweep takes care of them.
func (s *LocalStorage) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for name, t := range s.timers {
		t.Stop()
		delete(s.timers, name)
	}
}

func (s *LocalStorage) scheduleDeletion(storedName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.timers[storedName] = time.AfterFunc(s.retention, func() {
		s.cancelTimer(storedName)

		if err := os.Remove(filepath.Join(s.basePath, storedName)); err != nil {
			// Fire-and-forget: never surfaced, never retried
			s.logger.Warnw("failed to delete artifact", "name", storedName, "error", err)
			return
		}

		s.logger.Infow("artifact deleted", "name", storedName)
	})
}

func (s *LocalStorage) cancelTimer(storedName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[storedName]; ok {
		t.Stop()
		delete(s.timers, storedName)
	}
}
