// Package sessionstate provides the persistence collaborator for session
// state: a live snapshot per campaign plus numbered archives of finished
// sessions. The engine never touches storage itself; the hosting layer
// exports state and hands it here.
package sessionstate

import (
	"context"
	"time"

	"github.com/campaignkit/session-api/internal/entities"
)

// StateRecord is a stored session state snapshot
type StateRecord struct {
	// Campaign that owns the snapshot
	Campaign string `json:"campaign"`

	// State is the full serializable session state
	State *entities.SessionState `json:"state"`

	// SavedAt is the wall-clock time the snapshot was written
	SavedAt time.Time `json:"saved_at"`
}

// SaveInput contains parameters for writing the live snapshot
type SaveInput struct {
	Campaign string
	State    *entities.SessionState

	// TTL overrides the repository default; zero means use the default
	TTL time.Duration
}

// SaveOutput contains the result of writing the live snapshot
type SaveOutput struct {
	Record *StateRecord
}

// LoadInput contains parameters for reading the live snapshot
type LoadInput struct {
	Campaign string
}

// LoadOutput contains the result of reading the live snapshot
type LoadOutput struct {
	Record *StateRecord
}

// DeleteInput contains parameters for removing the live snapshot
type DeleteInput struct {
	Campaign string
}

// DeleteOutput contains the result of removing the live snapshot
type DeleteOutput struct {
	// Deleted is false when there was no live snapshot to remove
	Deleted bool
}

// ArchiveInput contains parameters for archiving the live snapshot
type ArchiveInput struct {
	Campaign string
}

// ArchiveOutput contains the result of archiving the live snapshot
type ArchiveOutput struct {
	// ArchiveIndex is the 1-based number assigned to the archived session
	ArchiveIndex int
}

// Repository defines the storage operations for session state
type Repository interface {
	// Save writes the campaign's live snapshot, replacing any previous one
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// Load reads the campaign's live snapshot
	Load(ctx context.Context, input LoadInput) (*LoadOutput, error)

	// Delete removes the campaign's live snapshot
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// Archive copies the live snapshot under the campaign's next archive
	// number. The live snapshot is left in place.
	Archive(ctx context.Context, input ArchiveInput) (*ArchiveOutput, error)
}
