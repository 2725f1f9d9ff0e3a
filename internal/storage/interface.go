package storage

import (
	"context"

	"github.com/jeyoh/moneyball/internal/model"
)

// Storage defines the interface for data persistence. Balance rows are keyed
// by the canonical pair (nameA < nameB); callers are expected to canonicalize
// before writing.
type Storage interface {
	// Balance operations
	AddToBalance(ctx context.Context, nameA, nameB string, delta int64) error
	GetBalance(ctx context.Context, nameA, nameB string) (int64, error)
	// ListBalances returns all entries involving name, or every entry when
	// name is empty
	ListBalances(ctx context.Context, name string) ([]model.BalanceEntry, error)

	// Event log operations
	// AppendEvent stores the event and assigns its monotonic ID
	AppendEvent(ctx context.Context, ev *model.Event) error
	// LatestEvent returns the most recently appended event, or
	// model.ErrNoEvents when the log is empty
	LatestEvent(ctx context.Context) (*model.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	// ListEvents returns up to limit events, newest first. With one name,
	// only events involving that name; with two, only events involving both.
	ListEvents(ctx context.Context, limit int, names ...string) ([]model.Event, error)

	// Baseball session operations
	SaveSession(ctx context.Context, sess *model.BaseballSession) error
	// GetSession returns model.ErrNoSession when the user has no session
	GetSession(ctx context.Context, userID string) (*model.BaseballSession, error)
	DeleteSession(ctx context.Context, userID string) error

	Close() error
}
