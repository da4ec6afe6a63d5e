// Package archive keeps an append-only copy of every generated insight
// payload in blob storage, keyed by round and version.
package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/caddie/caddie/pkg/config"
)

// Archive abstracts blob storage for generated insight payloads.
type Archive interface {
	PutInsight(ctx context.Context, roundID, version string, data []byte) error
	GetInsight(ctx context.Context, roundID, version string) ([]byte, error)
	// Versions lists a round's archived versions in ascending order.
	Versions(ctx context.Context, roundID string) ([]string, error)
}

// ErrInvalidKey is returned for round ids or versions that are not a single
// path segment.
var ErrInvalidKey = errors.New("invalid archive key")

// New returns the archive described by cfg, or nil when archiving is off.
func New(ctx context.Context, cfg config.ArchiveConfig) (Archive, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "local":
		dir := cfg.Path
		if dir == "" {
			dir = config.ArchiveDir()
		}
		return NewLocalArchive(dir), nil
	case "s3":
		a, err := NewS3Archive(ctx, S3Config{
			Bucket:    cfg.Bucket,
			Prefix:    cfg.Prefix,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		})
		if err != nil {
			return nil, err
		}
		return a, nil
	case "gcs":
		a, err := NewGCSArchive(ctx, cfg.Bucket, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Backend)
	}
}

func checkSegment(kind, s string) error {
	if s == "" || s == "." || strings.ContainsAny(s, "/\\\x00") || strings.Contains(s, "..") {
		return fmt.Errorf("%w: %s %q", ErrInvalidKey, kind, s)
	}
	return nil
}

func checkKey(roundID, version string) error {
	if err := checkSegment("round id", roundID); err != nil {
		return err
	}
	return checkSegment("version", version)
}

// roundPrefix is the key prefix under which a round's versions live.
func roundPrefix(prefix, roundID string) string {
	key := "rounds/" + roundID + "/insights/"
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		key = prefix + "/" + key
	}
	return key
}

// versionsFromKeys turns object keys under dir into sorted version names.
func versionsFromKeys(dir string, keys []string) []string {
	var versions []string
	for _, k := range keys {
		name, ok := strings.CutPrefix(k, dir)
		if !ok || strings.Contains(name, "/") {
			continue
		}
		if name, ok = strings.CutSuffix(name, ".json"); ok {
			versions = append(versions, name)
		}
	}
	sort.Strings(versions)
	return versions
}

// objectKey is the slash-separated key shared by every backend.
func objectKey(prefix, roundID, version string) string {
	return roundPrefix(prefix, roundID) + version + ".json"
}

// LocalArchive implements Archive using the local filesystem.
// Useful for development and testing.
type LocalArchive struct {
	BaseDir string
}

// NewLocalArchive creates a LocalArchive rooted at the given directory.
func NewLocalArchive(baseDir string) *LocalArchive {
	return &LocalArchive{BaseDir: baseDir}
}

// path resolves a key under BaseDir and refuses anything that would land
// outside it.
func (a *LocalArchive) path(roundID, version string) (string, error) {
	if err := checkKey(roundID, version); err != nil {
		return "", err
	}
	base := filepath.Clean(a.BaseDir)
	p := filepath.Join(base, filepath.FromSlash(objectKey("", roundID, version)))
	rel, err := filepath.Rel(base, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s escapes archive root", ErrInvalidKey, p)
	}
	return p, nil
}

// PutInsight stores an insight payload.
func (a *LocalArchive) PutInsight(ctx context.Context, roundID, version string, data []byte) error {
	path, err := a.path(roundID, version)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// GetInsight retrieves an insight payload.
func (a *LocalArchive) GetInsight(ctx context.Context, roundID, version string) ([]byte, error) {
	path, err := a.path(roundID, version)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Versions lists the archived versions for a round, oldest first.
func (a *LocalArchive) Versions(ctx context.Context, roundID string) ([]string, error) {
	path, err := a.path(roundID, "x")
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	var versions []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".json"); ok {
			versions = append(versions, name)
		}
	}
	return versions, nil
}
