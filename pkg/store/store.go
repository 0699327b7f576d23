// Package store persists routing runs for later retrieval.
//
// A Run records everything needed to review a routing execution after
// the fact: the inputs' content hash, the effective configuration, and
// the full result. Two backends are provided:
//   - memory: In-memory storage for development/testing and single-instance servers
//   - mongo: MongoDB-backed storage for deployments that keep run history
//
// # Usage
//
//	st := store.NewMemoryStore()
//	// or
//	st, err := store.NewMongoStore(ctx, "mongodb://localhost:27017", "pinroute")
//
//	err = st.Put(ctx, run)
//	run, err := st.Get(ctx, runID)
//	runs, err := st.List(ctx, 20)
package store

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/pinroute/pkg/route"
)

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("run not found")

// DefaultListLimit caps List results when the caller passes no limit.
const DefaultListLimit = 50

// Run is one persisted routing execution.
type Run struct {
	ID        string        `json:"id" bson:"_id"`
	Design    string        `json:"design" bson:"design"`
	InputHash string        `json:"input_hash" bson:"input_hash"`
	Config    route.Config  `json:"config" bson:"config"`
	Result    *route.Result `json:"result" bson:"result"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
}

// Store is the interface for run storage backends.
type Store interface {
	// Put stores a run. Storing an existing ID overwrites it.
	Put(ctx context.Context, run *Run) error

	// Get retrieves a run by ID. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns up to limit runs, newest first. A non-positive limit
	// uses DefaultListLimit.
	List(ctx context.Context, limit int) ([]*Run, error)

	// Delete removes a run. Deleting a missing run is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
