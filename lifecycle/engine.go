// Package lifecycle owns the borrow/item/transaction state machine. One loan
// thread moves Available -> requested -> accepted -> transaction open ->
// returned -> Available, with a decline path that releases the item. The
// engine is the only writer of Item.Available, Borrow.PendingStat and
// Transaction.ReturnStatus.
package lifecycle

import (
	"context"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/goodjobguy1234/LendItApi/apperr"
	"github.com/goodjobguy1234/LendItApi/models"
)

type Engine struct {
	store Store
	gate  Gate
	log   logrus.FieldLogger
}

func NewEngine(store Store, log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{store: store, log: log}
}

type CreateBorrowInput struct {
	ItemID         string
	BorrowerID     string
	LenderID       string
	BorrowDuration int
	CallerID       string
}

// CreateBorrow locks the item for the borrower. The availability flip is a
// compare-and-swap: two racing requests both read available=true, but only
// the one whose flip lands creates a borrow row.
func (e *Engine) CreateBorrow(ctx context.Context, in CreateBorrowInput) (*models.Borrow, error) {
	if in.BorrowDuration < models.MinBorrowDuration {
		return nil, apperr.Invalid("minimum borrow duration is 1")
	}
	if err := e.gate.Authorize(in.CallerID, in.BorrowerID, "a borrow can only be requested by the borrower"); err != nil {
		return nil, err
	}
	if in.BorrowerID == in.LenderID {
		return nil, apperr.Conflict("cannot borrow your own item")
	}
	for _, id := range []string{in.BorrowerID, in.LenderID} {
		ok, err := e.store.UserExists(ctx, id)
		if err != nil {
			return nil, apperr.Internal("look up user "+id, err)
		}
		if !ok {
			return nil, apperr.NotFound("user " + id + " does not exist")
		}
	}

	var out *models.Borrow
	err := e.store.InTx(ctx, func(s Store) error {
		item, err := s.GetItem(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item.OwnerID != in.LenderID {
			return apperr.Conflict("the owner id different person")
		}
		if !item.Available {
			return apperr.Conflict("this item is not available")
		}
		flipped, err := s.SetItemAvailability(ctx, item.ID, true, false)
		if err != nil {
			return apperr.Internal("reserve item", err)
		}
		if !flipped {
			// Someone else grabbed it between the read and the flip.
			return apperr.Conflict("this item is not available")
		}
		b := &models.Borrow{
			ID:             uuid.NewString(),
			ItemID:         item.ID,
			BorrowerID:     in.BorrowerID,
			LenderID:       in.LenderID,
			BorrowDuration: in.BorrowDuration,
			PendingStat:    false,
		}
		if err := s.CreateBorrow(ctx, b); err != nil {
			return apperr.Internal("create borrow after reserving item", err)
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.WithFields(logrus.Fields{
		"borrow": out.ID, "item": out.ItemID, "borrower": out.BorrowerID,
	}).Info("borrow requested, item reserved")
	return out, nil
}

// AcceptBorrow flips the request to accepted. Lender only; accepting an
// already-accepted borrow is a no-op.
func (e *Engine) AcceptBorrow(ctx context.Context, borrowID, callerID string) (*models.Borrow, error) {
	b, err := e.store.GetBorrow(ctx, borrowID)
	if err != nil {
		return nil, err
	}
	if err := e.gate.Authorize(callerID, b.LenderID, "only the lender may accept this borrow"); err != nil {
		return nil, err
	}
	if b.PendingStat {
		return b, nil
	}
	if err := e.store.SetBorrowPending(ctx, b.ID, true); err != nil {
		return nil, apperr.Internal("accept borrow", err)
	}
	b.PendingStat = true
	e.log.WithFields(logrus.Fields{"borrow": b.ID, "lender": b.LenderID}).Info("borrow accepted")
	return b, nil
}

// DeleteBorrow is the decline/cancel path: release the item, then drop the
// request, in one store transaction so a failure never strands the item.
func (e *Engine) DeleteBorrow(ctx context.Context, borrowID, callerID string) error {
	err := e.store.InTx(ctx, func(s Store) error {
		b, err := s.GetBorrow(ctx, borrowID)
		if err != nil {
			return err
		}
		if err := e.gate.Authorize(callerID, b.LenderID, "only the lender may decline this borrow"); err != nil {
			return err
		}
		open, err := s.OpenTransactionExists(ctx, b.ID)
		if err != nil {
			return apperr.Internal("check open transaction", err)
		}
		if open {
			return apperr.Conflict("borrow has an open transaction, return the item instead")
		}
		// Release before delete; if the flag was already true this is a no-op.
		if _, err := s.SetItemAvailability(ctx, b.ItemID, false, true); err != nil {
			return apperr.Internal("release item", err)
		}
		if err := s.DeleteBorrow(ctx, b.ID); err != nil {
			return apperr.Internal("delete borrow after releasing item", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.log.WithField("borrow", borrowID).Info("borrow declined, item released")
	return nil
}

type CreateTransactionInput struct {
	BorrowID   string
	TotalPrice int
	CallerID   string
}

// CreateTransaction opens the settlement record for an accepted borrow,
// snapshotting the item and borrow so the record outlives them.
func (e *Engine) CreateTransaction(ctx context.Context, in CreateTransactionInput) (*models.Transaction, error) {
	if in.TotalPrice < models.MinTotalPrice {
		return nil, apperr.Invalid("minimum total price is 50")
	}
	var out *models.Transaction
	err := e.store.InTx(ctx, func(s Store) error {
		b, err := s.GetBorrow(ctx, in.BorrowID)
		if err != nil {
			return err
		}
		if in.CallerID != b.LenderID && in.CallerID != b.BorrowerID {
			return apperr.Unauthorized("only the lender or borrower may open a transaction")
		}
		if !b.PendingStat {
			return apperr.Conflict("borrow not accepted yet")
		}
		open, err := s.OpenTransactionExists(ctx, b.ID)
		if err != nil {
			return apperr.Internal("check open transaction", err)
		}
		if open {
			return apperr.Conflict("transaction already open for this borrow")
		}
		item, err := s.GetItem(ctx, b.ItemID)
		if err != nil {
			return err
		}
		t := &models.Transaction{
			ID:         ulid.Make().String(),
			TotalPrice: in.TotalPrice,
			ItemInfo: models.ItemInfo{
				Name:            item.Name,
				PricePerDay:     item.PricePerDay,
				ImageURL:        item.ImageURL,
				Location:        item.Location,
				ItemDescription: item.Description,
			},
			BorrowInfo: models.BorrowInfo{
				BorrowID:       b.ID,
				BorrowerID:     b.BorrowerID,
				LenderID:       b.LenderID,
				BorrowDuration: b.BorrowDuration,
			},
		}
		if err := s.CreateTransaction(ctx, t); err != nil {
			return apperr.Internal("create transaction", err)
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.WithFields(logrus.Fields{
		"transaction": out.ID, "borrow": out.BorrowInfo.BorrowID, "totalPrice": out.TotalPrice,
	}).Info("transaction opened")
	return out, nil
}

// CompleteTransaction confirms the return. Borrower only. Marks the
// transaction returned, frees the item and deletes the borrow in one store
// transaction; completing an already-returned transaction is a no-op.
func (e *Engine) CompleteTransaction(ctx context.Context, transactionID, callerID string) (*models.Transaction, error) {
	var out *models.Transaction
	err := e.store.InTx(ctx, func(s Store) error {
		t, err := s.GetTransaction(ctx, transactionID)
		if err != nil {
			return err
		}
		if t.ReturnStatus {
			out = t
			return nil
		}
		b, err := s.GetBorrow(ctx, t.BorrowInfo.BorrowID)
		if err != nil {
			return err
		}
		if err := e.gate.Authorize(callerID, b.BorrowerID, "only the borrower may confirm the return"); err != nil {
			return err
		}
		if err := s.SetTransactionReturned(ctx, t.ID); err != nil {
			return apperr.Internal("mark transaction returned", err)
		}
		if _, err := s.SetItemAvailability(ctx, b.ItemID, false, true); err != nil {
			return apperr.Internal("release item after return", err)
		}
		if err := s.DeleteBorrow(ctx, b.ID); err != nil {
			return apperr.Internal("delete borrow after return", err)
		}
		t.ReturnStatus = true
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.WithField("transaction", out.ID).Info("transaction closed, item returned")
	return out, nil
}

// Reconcile repairs items left unavailable by a crash mid-transition: any
// item with available=false and no borrow row gets flipped back. Returns the
// repaired ids.
func (e *Engine) Reconcile(ctx context.Context) ([]string, error) {
	ids, err := e.store.UnavailableItemIDsWithoutBorrow(ctx)
	if err != nil {
		return nil, apperr.Internal("scan for orphaned items", err)
	}
	repaired := make([]string, 0, len(ids))
	for _, id := range ids {
		flipped, err := e.store.SetItemAvailability(ctx, id, false, true)
		if err != nil {
			return repaired, apperr.Internal("release orphaned item "+id, err)
		}
		if flipped {
			repaired = append(repaired, id)
		}
	}
	if len(repaired) > 0 {
		e.log.WithField("items", repaired).Warn("reconcile released orphaned items")
	}
	return repaired, nil
}
