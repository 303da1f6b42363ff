package storage

import "context"

// Storage uploads binary objects to a public bucket and returns their URLs.
type Storage interface {
	Upload(ctx context.Context, object *UploadObject) (*UploadResponse, error)
}

// UploadObject describes a single object to store.
type UploadObject struct {
	Bucket string
	Key    string
	Mime   string
	Data   []byte
}

// UploadResponse holds the stored object location.
type UploadResponse struct {
	URL string
	Key string
}
