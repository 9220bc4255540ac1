package storage

import (
	"context"
	"io"
	"mime/multipart"
)

// StoredFile describes an object written to blob storage.
type StoredFile struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	MIME string `json:"mime"`
	URL  string `json:"url"`
}

type BlobStorage interface {
	Store(ctx context.Context, file *multipart.FileHeader, folder string) (StoredFile, error)
	StoreBytes(ctx context.Context, r io.Reader, name, folder string) (StoredFile, error)
	Delete(ctx context.Context, path string) error
}

// Default is the process-wide blob storage, nil until Init succeeds.
var Default BlobStorage

// Signer is implemented by backends that support direct browser uploads.
type Signer interface {
	SignUpload(folder string) (UploadSignature, error)
}
