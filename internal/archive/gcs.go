package archive

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCSArchive implements Archive using Google Cloud Storage.
type GCSArchive struct {
	client *gcs.Client
	bucket string
	prefix string
}

// NewGCSArchive creates a GCS-backed Archive.
// It uses Application Default Credentials (works with Workload Identity, SA keys, gcloud auth).
func NewGCSArchive(ctx context.Context, bucket, prefix string) (*GCSArchive, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs archive: bucket is required")
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCSArchive{client: client, bucket: bucket, prefix: prefix}, nil
}

func (a *GCSArchive) PutInsight(ctx context.Context, roundID, version string, data []byte) error {
	if err := checkKey(roundID, version); err != nil {
		return err
	}
	key := objectKey(a.prefix, roundID, version)
	w := a.client.Bucket(a.bucket).Object(key).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("gcs write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs close %s: %w", key, err)
	}
	return nil
}

func (a *GCSArchive) GetInsight(ctx context.Context, roundID, version string) ([]byte, error) {
	if err := checkKey(roundID, version); err != nil {
		return nil, err
	}
	key := objectKey(a.prefix, roundID, version)
	r, err := a.client.Bucket(a.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs read %s: %w", key, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (a *GCSArchive) Versions(ctx context.Context, roundID string) ([]string, error) {
	if err := checkSegment("round id", roundID); err != nil {
		return nil, err
	}
	dir := roundPrefix(a.prefix, roundID)
	var keys []string
	it := a.client.Bucket(a.bucket).Objects(ctx, &gcs.Query{Prefix: dir})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gcs list %s: %w", dir, err)
		}
		keys = append(keys, attrs.Name)
	}
	return versionsFromKeys(dir, keys), nil
}

// Close releases the GCS client.
func (a *GCSArchive) Close() error {
	return a.client.Close()
}
