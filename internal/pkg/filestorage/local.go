package filestorage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

// FileStorage stores uploaded files and resolves stored paths back to disk
type FileStorage interface {
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)
	DeleteFile(storedPath string) error
	GetFullPath(storedPath string) string
}

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath     string
	maxSize      int64
	allowedTypes map[string]bool
}

// Option configures a LocalStorage
type Option func(*LocalStorage)

// WithMaxSize rejects uploads larger than n bytes
func WithMaxSize(n int64) Option {
	return func(ls *LocalStorage) { ls.maxSize = n }
}

// WithAllowedExtensions restricts uploads to the given lowercase extensions (".pdf")
func WithAllowedExtensions(exts ...string) Option {
	return func(ls *LocalStorage) {
		ls.allowedTypes = make(map[string]bool, len(exts))
		for _, e := range exts {
			ls.allowedTypes[strings.ToLower(e)] = true
		}
	}
}

// ErrFileRejected is returned for uploads that violate size or type limits
var ErrFileRejected = errors.New("file rejected")

// NewLocalStorage creates a new LocalStorage rooted at basePath
func NewLocalStorage(basePath string, opts ...Option) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Debug().Str("path", basePath).Msg("Local storage directory ensured")

	ls := &LocalStorage{basePath: basePath}
	for _, opt := range opts {
		opt(ls)
	}
	return ls, nil
}

// SaveFileWithPath saves a file under subPath and returns its stored path ("resumes/<uuid>.pdf").
// A nil header stores nothing and returns an empty path.
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ls.allowedTypes != nil && !ls.allowedTypes[ext] {
		return "", fmt.Errorf("%w: extension %q is not allowed", ErrFileRejected, ext)
	}
	if ls.maxSize > 0 && fileHeader.Size > ls.maxSize {
		return "", fmt.Errorf("%w: file exceeds %d bytes", ErrFileRejected, ls.maxSize)
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	subPath = strings.Trim(filepath.ToSlash(filepath.Clean("/"+subPath)), "/")
	fullDirPath := filepath.Join(ls.basePath, filepath.FromSlash(subPath))
	if err := os.MkdirAll(fullDirPath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	uniqueFilename := uuid.New().String() + ext
	dstPath := filepath.Join(fullDirPath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	stored := path.Join(subPath, uniqueFilename)
	logger.Info().Str("filename", fileHeader.Filename).Str("stored_as", stored).Msg("File saved successfully")
	return stored, nil
}

// DeleteFile removes a stored file. Missing files are not an error.
func (ls *LocalStorage) DeleteFile(storedPath string) error {
	physicalPath := ls.GetFullPath(storedPath)
	if physicalPath == "" {
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetFullPath maps a stored path onto the filesystem, refusing paths that escape the base directory
func (ls *LocalStorage) GetFullPath(storedPath string) string {
	if storedPath == "" {
		return ""
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(storedPath)), "/")
	if cleaned == "" || cleaned == "." {
		return ""
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(cleaned))
}
