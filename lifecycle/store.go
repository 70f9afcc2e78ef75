package lifecycle

import (
	"context"

	"github.com/goodjobguy1234/LendItApi/models"
)

// Store is the storage contract the engine runs on. Point lookups return an
// apperr.NotFound when the row is missing. InTx runs fn against a store whose
// writes commit or roll back together; the engine puts every multi-entity
// transition inside one.
type Store interface {
	InTx(ctx context.Context, fn func(Store) error) error

	// UserExists checks the public student-id space, not storage ids.
	UserExists(ctx context.Context, studentID string) (bool, error)

	GetItem(ctx context.Context, id string) (*models.Item, error)
	// SetItemAvailability flips available from -> to and reports whether a row
	// changed. A false return with no error means the flag was not in the
	// expected state: the compare-and-swap lost.
	SetItemAvailability(ctx context.Context, itemID string, from, to bool) (bool, error)

	GetBorrow(ctx context.Context, id string) (*models.Borrow, error)
	CreateBorrow(ctx context.Context, b *models.Borrow) error
	SetBorrowPending(ctx context.Context, id string, pending bool) error
	DeleteBorrow(ctx context.Context, id string) error

	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	// OpenTransactionExists reports whether an unreturned transaction already
	// references the borrow.
	OpenTransactionExists(ctx context.Context, borrowID string) (bool, error)
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	SetTransactionReturned(ctx context.Context, id string) error

	// UnavailableItemIDsWithoutBorrow lists items stuck at available=false with
	// no borrow row referencing them. Feed for Reconcile.
	UnavailableItemIDsWithoutBorrow(ctx context.Context) ([]string, error)
}
