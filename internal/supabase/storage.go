package supabase

import (
	"io"
	"sync"
	"time"

	storage "github.com/supabase-community/storage-go"
)

const defaultContentType = "application/octet-stream"

type StorageClient struct {
	client *Client

	// upload options are applied to the SDK transport's shared headers
	uploadMu sync.Mutex
}

func NewStorageClient(client *Client) *StorageClient {
	return &StorageClient{client: client}
}

type UploadOptions struct {
	// Upsert overwrites an existing object at the same path.
	Upsert      bool
	ContentType string
}

func (s *StorageClient) Upload(bucket, path string, data io.Reader, opts UploadOptions) (*storage.FileUploadResponse, error) {
	contentType := opts.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	fileOpts := storage.FileOptions{
		Upsert:      &opts.Upsert,
		ContentType: &contentType,
	}

	started := time.Now()
	s.uploadMu.Lock()
	resp, err := s.client.Supabase.Storage.UploadFile(bucket, path, data, fileOpts)
	s.uploadMu.Unlock()
	observe("storage", "upload", started, err)
	if err != nil {
		return nil, s.client.report("upload "+bucket+"/"+path, err, "Failed to upload file")
	}
	return &resp, nil
}

func (s *StorageClient) Download(bucket, path string) ([]byte, error) {
	started := time.Now()
	data, err := s.client.Supabase.Storage.DownloadFile(bucket, path)
	observe("storage", "download", started, err)
	if err != nil {
		return nil, s.client.report("download "+bucket+"/"+path, err, "Failed to download file")
	}
	return data, nil
}

// Delete removes every object in paths from bucket in one request.
func (s *StorageClient) Delete(bucket string, paths []string) ([]storage.FileUploadResponse, error) {
	started := time.Now()
	resp, err := s.client.Supabase.Storage.RemoveFile(bucket, paths)
	observe("storage", "delete", started, err)
	if err != nil {
		return nil, s.client.report("delete from "+bucket, err, "Failed to delete file(s)")
	}
	return resp, nil
}

// List returns the objects directly under prefix.
func (s *StorageClient) List(bucket, prefix string) ([]storage.FileObject, error) {
	started := time.Now()
	files, err := s.client.Supabase.Storage.ListFiles(bucket, prefix, storage.FileSearchOptions{
		Limit: 1000,
	})
	observe("storage", "list", started, err)
	if err != nil {
		return nil, s.client.report("list "+bucket+"/"+prefix, err, "Failed to list files")
	}
	return files, nil
}

// PublicURL never fails and makes no request.
func (s *StorageClient) PublicURL(bucket, path string) string {
	return s.client.Supabase.Storage.GetPublicUrl(bucket, path).SignedURL
}
