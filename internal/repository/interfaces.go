package repository

import (
	"context"

	"github.com/limbo/bloom/pkg/entity"
)

// KV is the local string-keyed store everything else sits on. Values are
// JSON text blobs; last write to a key wins, there is no locking or
// versioning. Get reports presence separately from failure so callers can
// tell "no data" apart from a broken store.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type UserRecordRepositoryI interface {
	// Reads the fixed profile key. Missing or malformed payloads are treated
	// as "no signed-in user", never as partial data.
	GetCurrent(ctx context.Context) (*entity.User, error)
	// Serializes and writes the profile record (full overwrite)
	SetCurrent(ctx context.Context, user *entity.User) error
	// Removes the profile key
	ClearCurrent(ctx context.Context) error
}

type EntriesRepositoryI interface {
	// Returns the user's collection; empty collection when nothing is stored
	// or the payload is malformed
	GetUserData(ctx context.Context, userID string) (*entity.UserData, error)
	// Full overwrite of the collection, not incremental
	SaveUserData(ctx context.Context, userID string, data *entity.UserData) error
	// Reports whether any collection blob exists for the user, malformed or not
	Exists(ctx context.Context, userID string) (bool, error)
}
