package storage

import (
	"context"
	"mime/multipart"
)

// Storage is the file-storage collaborator for chat images. Handlers talk
// to Default so tests can swap in a recorder.
type Storage interface {
	// Store uploads the file under folder and returns the stored path used
	// later for Delete.
	Store(ctx context.Context, file *multipart.FileHeader, folder string) (string, error)
	Delete(ctx context.Context, path string) error
}

var Default Storage = &CloudinaryStorage{}
