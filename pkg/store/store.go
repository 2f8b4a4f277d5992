// Package store records generated decks.
//
// Every successful generation produces a [Record] holding the deck's title,
// where it was written, its public URL and a few counts. Records back the
// deck history of the HTTP API and can be marked as favorites.
//
// Three backends implement [Store]:
//   - [MemoryStore]: in-process storage for tests and single-instance servers
//   - [FileStore]: one JSON file per record for the CLI
//   - [MongoStore]: a MongoDB collection for shared deployments
package store

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/slidesmith/pkg/errors"
)

// DefaultListLimit caps [Store.List] when no limit is given.
const DefaultListLimit = 50

// Record describes one generated deck.
type Record struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	Path      string    `json:"path" bson:"path"`
	URL       string    `json:"url,omitempty" bson:"url,omitempty"`
	Slides    int       `json:"slides" bson:"slides"`
	Sections  int       `json:"sections" bson:"sections"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	Favorite  bool      `json:"favorite" bson:"favorite"`
}

// Store persists deck records. Implementations are safe for concurrent use.
type Store interface {
	// Add stores r, assigning an ID and creation time when they are unset.
	Add(ctx context.Context, r *Record) error
	// Get returns the record with id, or a DECK_NOT_FOUND error.
	Get(ctx context.Context, id string) (*Record, error)
	// List returns up to limit records, newest first. A limit of zero or
	// less uses DefaultListLimit.
	List(ctx context.Context, limit int) ([]*Record, error)
	// ToggleFavorite flips the favorite flag of id and returns the updated
	// record.
	ToggleFavorite(ctx context.Context, id string) (*Record, error)
	Close() error
}

// prepare fills the ID and creation time of r.
func prepare(r *Record, now func() time.Time) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now().UTC()
	}
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeDeckNotFound, "deck %q not found", id)
}

// newestFirst sorts records by creation time, newest first, then by ID for
// a stable order, and trims the result to limit.
func newestFirst(records []*Record, limit int) []*Record {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if len(records) > limit {
		records = records[:limit]
	}
	return records
}
