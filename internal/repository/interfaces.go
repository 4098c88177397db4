package repository

import "context"

// Logical snapshot names. The engine persists full-replace JSON snapshots
// under these keys; backends may prefix or namespace them as they see fit.
const (
	SnapshotCandidates   = "candidates"
	SnapshotVoters       = "voters"
	SnapshotAdminSession = "adminActiveSession"
)

// SnapshotStore is the durable key-value store behind the election engine.
// Values are opaque strings (JSON arrays for the collections, an epoch-millis
// string for the admin session marker).
type SnapshotStore interface {
	// Load retrieves a snapshot. The second return value is false when the
	// key has never been written (or was deleted).
	Load(ctx context.Context, key string) (string, bool, error)

	// Save replaces a single snapshot.
	Save(ctx context.Context, key, value string) error

	// SaveAll replaces several snapshots in one atomic write. Readers must
	// never observe some of the keys updated and others not.
	SaveAll(ctx context.Context, snapshots map[string]string) error

	// Delete removes a snapshot. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Health reports whether the backend is reachable.
	Health(ctx context.Context) error
}
