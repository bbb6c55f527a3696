package repo

import (
	"context"
	"errors"

	"github.com/BuzzLyutic/taskhub/internal/model"
)

var (
	ErrorNotFound = errors.New("not found")
	ErrRead       = errors.New("read document")
	ErrWrite      = errors.New("write document")
)

// DocumentStore is the document collection tasks are extracted from.
type DocumentStore interface {
	List(ctx context.Context) ([]model.DocumentRef, error)
	// Read returns the full text; failures wrap ErrRead.
	Read(ctx context.Context, ref model.DocumentRef) (string, error)
	// Write replaces the full text of an existing document; failures wrap ErrWrite.
	Write(ctx context.Context, ref model.DocumentRef, text string) error
}
