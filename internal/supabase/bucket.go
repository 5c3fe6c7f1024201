package supabase

import (
	"fmt"

	storage "github.com/supabase-community/storage-go"
)

// BucketClient manages the objects of a single storage bucket.
type BucketClient struct {
	client *storage.Client
	bucket string
}

// Bucket returns a BucketClient authorised with the client's current
// credential, or the public key when signed out.
func (c *Client) Bucket(bucket string) *BucketClient {
	sc := storage.NewClient(c.config.StorageURL(), c.bearer(), map[string]string{
		"apikey": c.config.PublicKey,
	})
	return &BucketClient{client: sc, bucket: bucket}
}

// Name returns the bucket name.
func (b *BucketClient) Name() string {
	return b.bucket
}

// List returns the names of the objects under prefix.
func (b *BucketClient) List(prefix string, limit int) ([]string, error) {
	files, err := b.client.ListFiles(b.bucket, prefix, storage.FileSearchOptions{
		Limit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	names := make([]string, len(files))
	for i, file := range files {
		names[i] = file.Name
	}
	return names, nil
}

// Remove deletes the objects at paths.
func (b *BucketClient) Remove(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	if _, err := b.client.RemoveFile(b.bucket, paths); err != nil {
		return fmt.Errorf("failed to delete files: %w", err)
	}
	return nil
}

// Download returns the content of the object at objectPath.
func (b *BucketClient) Download(objectPath string) ([]byte, error) {
	data, err := b.client.DownloadFile(b.bucket, objectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	return data, nil
}
