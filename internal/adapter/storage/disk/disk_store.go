package disk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusnest/accommodation-service/internal/domain"
	"github.com/campusnest/accommodation-service/internal/platform/logger"
)

// RoutePrefix is the fixed public route under which stored files are served.
const RoutePrefix = "/api/files/images/"

// Store persists uploaded files to a local directory and addresses them by
// public URL. Every file gets a generated name independent of the original
// filename; only the extension is preserved.
type Store struct {
	root    string
	baseURL string
	logger  *logger.Logger
}

// NewStore creates the storage root (including parents) if absent and returns
// a Store rooted there. URLs are built from baseURL + RoutePrefix.
func NewStore(root, baseURL string, log *logger.Logger) (*Store, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root %s: %w", root, err)
	}
	if err := os.MkdirAll(absRoot, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage root %s: %w", absRoot, err)
	}

	log.Info("Disk file store initialized", zap.String("root", absRoot), zap.String("base_url", baseURL))
	return &Store{
		root:    absRoot,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  log.Named("DiskStore"),
	}, nil
}

// Store writes the file under a generated unique name and returns its URL.
// Filenames containing a parent-directory sequence are rejected before any
// write occurs.
func (s *Store) Store(ctx context.Context, originalName string, data []byte) (string, error) {
	cleaned := filepath.Clean(originalName)
	if strings.Contains(cleaned, "..") {
		s.logger.Warn("Rejected filename with path traversal sequence", zap.String("filename", originalName))
		return "", fmt.Errorf("%w: filename contains invalid path sequence %s", domain.ErrStorage, originalName)
	}

	generated := uuid.New().String() + filepath.Ext(cleaned)
	target := filepath.Join(s.root, generated)

	if err := os.WriteFile(target, data, 0644); err != nil {
		s.logger.Error("Failed to write file", zap.String("target", target), zap.Error(err))
		return "", fmt.Errorf("%w: could not store file %s: %v", domain.ErrStorage, originalName, err)
	}

	url := s.baseURL + RoutePrefix + generated
	s.logger.Debug("File stored",
		zap.String("original_filename", originalName),
		zap.String("stored_name", generated),
		zap.Int("size_bytes", len(data)))
	return url, nil
}

// StoreAll stores every file and returns their URLs in input order. The first
// failure aborts the batch.
func (s *Store) StoreAll(ctx context.Context, files []domain.File) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := s.Store(ctx, f.Name, f.Data)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// Delete removes the file a URL points at. Deleting a URL whose backing file
// is already absent is not an error.
func (s *Store) Delete(ctx context.Context, url string) error {
	name, err := s.fileNameFromURL(url)
	if err != nil {
		return err
	}

	target := filepath.Join(s.root, name)
	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("File already absent on delete", zap.String("stored_name", name))
			return nil
		}
		s.logger.Error("Failed to delete file", zap.String("target", target), zap.Error(err))
		return fmt.Errorf("%w: could not delete file %s: %v", domain.ErrStorage, url, err)
	}
	s.logger.Debug("File deleted", zap.String("stored_name", name))
	return nil
}

// DeleteAll removes every file the URLs point at, stopping at the first failure.
func (s *Store) DeleteAll(ctx context.Context, urls []string) error {
	for _, url := range urls {
		if err := s.Delete(ctx, url); err != nil {
			return err
		}
	}
	return nil
}

// fileNameFromURL extracts the generated name from the URL's final path
// segment and guards against traversal in crafted URLs.
func (s *Store) fileNameFromURL(url string) (string, error) {
	name := url
	if idx := strings.LastIndex(url, "/"); idx >= 0 {
		name = url[idx+1:]
	}
	if name == "" || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: invalid file URL %s", domain.ErrStorage, url)
	}
	return name, nil
}

var _ domain.FileStore = (*Store)(nil)
