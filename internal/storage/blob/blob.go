package blob

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Store abstracts where uploaded documents and generated artifacts live.
// Paths are deterministic relative keys under fixed prefixes, so writing
// the same key twice overwrites the previous object.
type Store interface {
	Write(ctx context.Context, path string, data []byte, contentType string) error
	Read(ctx context.Context, path string) ([]byte, error)
	URLFor(ctx context.Context, path string) (string, error)
}

// Deterministic artifact paths, keyed by registration identity. Re-running
// generation for the same registration overwrites the same object.

// BadgePath returns the storage path for a registration's badge image.
func BadgePath(registrationID uuid.UUID) string {
	return fmt.Sprintf("badges/badge_%s.png", registrationID)
}

// LetterPath returns the storage path for a registration's invitation letter.
func LetterPath(registrationID uuid.UUID) string {
	return fmt.Sprintf("letters/invitation_%s.pdf", registrationID)
}

// DocumentPath returns the storage path for an uploaded identity document.
// The extension is kept so the object is served with a sensible name.
func DocumentPath(registrationID uuid.UUID, slot, ext string) string {
	return fmt.Sprintf("documents/%s/%s%s", registrationID, slot, ext)
}
