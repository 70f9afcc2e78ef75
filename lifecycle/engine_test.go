package lifecycle

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/goodjobguy1234/LendItApi/apperr"
	"github.com/goodjobguy1234/LendItApi/models"
)

// memStore is an in-memory Store. InTx applies fn directly without rollback,
// which doubles as a way to observe half-applied transitions when a forced
// write error simulates a crash between steps.
type memStore struct {
	mu      sync.Mutex
	users   map[string]bool
	items   map[string]*models.Item
	borrows map[string]*models.Borrow
	txns    map[string]*models.Transaction

	createBorrowErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[string]bool{},
		items:   map[string]*models.Item{},
		borrows: map[string]*models.Borrow{},
		txns:    map[string]*models.Transaction{},
	}
}

func (m *memStore) InTx(ctx context.Context, fn func(Store) error) error { return fn(m) }

func (m *memStore) UserExists(ctx context.Context, studentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[studentID], nil
}

func (m *memStore) GetItem(ctx context.Context, id string) (*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil, apperr.NotFound("item not found")
	}
	cp := *it
	return &cp, nil
}

func (m *memStore) SetItemAvailability(ctx context.Context, itemID string, from, to bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[itemID]
	if !ok || it.Available != from {
		return false, nil
	}
	it.Available = to
	return true, nil
}

func (m *memStore) GetBorrow(ctx context.Context, id string) (*models.Borrow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.borrows[id]
	if !ok {
		return nil, apperr.NotFound("borrow not found")
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) CreateBorrow(ctx context.Context, b *models.Borrow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createBorrowErr != nil {
		return m.createBorrowErr
	}
	for _, existing := range m.borrows {
		if existing.ItemID == b.ItemID {
			return errors.New("duplicate key: one borrow per item")
		}
	}
	cp := *b
	m.borrows[b.ID] = &cp
	return nil
}

func (m *memStore) SetBorrowPending(ctx context.Context, id string, pending bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.borrows[id]
	if !ok {
		return errors.New("borrow vanished")
	}
	b.PendingStat = pending
	return nil
}

func (m *memStore) DeleteBorrow(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.borrows, id)
	return nil
}

func (m *memStore) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.txns[id]
	if !ok {
		return nil, apperr.NotFound("transaction not found")
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) OpenTransactionExists(ctx context.Context, borrowID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.txns {
		if t.BorrowInfo.BorrowID == borrowID && !t.ReturnStatus {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.txns[t.ID] = &cp
	return nil
}

func (m *memStore) SetTransactionReturned(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.txns[id]
	if !ok {
		return errors.New("transaction vanished")
	}
	t.ReturnStatus = true
	return nil
}

func (m *memStore) UnavailableItemIDsWithoutBorrow(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	referenced := map[string]bool{}
	for _, b := range m.borrows {
		referenced[b.ItemID] = true
	}
	var ids []string
	for id, it := range m.items {
		if !it.Available && !referenced[id] {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// --- helpers ---

func newTestEngine(store Store) *Engine {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewEngine(store, log)
}

// seed: U1 owns available item I1, U2 and U3 are other users.
func seedStore() *memStore {
	s := newMemStore()
	s.users["6210015"] = true // U1, lender
	s.users["6110155"] = true // U2, borrower
	s.users["6110156"] = true // U3
	s.items["I1"] = &models.Item{
		ID: "I1", Name: "vacuum cleaner", PricePerDay: 120, OwnerID: "6210015",
		Location: "dorm A", Description: "1200W", ImageURL: "http://img/vac.png",
		Available: true,
	}
	return s
}

const (
	u1 = "6210015"
	u2 = "6110155"
	u3 = "6110156"
)

func requestBorrow(t *testing.T, e *Engine, borrower string, duration int) *models.Borrow {
	t.Helper()
	b, err := e.CreateBorrow(context.Background(), CreateBorrowInput{
		ItemID: "I1", BorrowerID: borrower, LenderID: u1,
		BorrowDuration: duration, CallerID: borrower,
	})
	if err != nil {
		t.Fatalf("CreateBorrow() failed: %v", err)
	}
	return b
}

func wantKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", kind)
	}
	if got := apperr.KindOf(err); got != kind {
		t.Fatalf("error kind = %v, want %v (err: %v)", got, kind, err)
	}
}

// --- CreateBorrow ---

func TestCreateBorrow_ReservesItem(t *testing.T) {
	s := seedStore()
	e := newTestEngine(s)

	b := requestBorrow(t, e, u2, 2)

	if b.PendingStat {
		t.Error("new borrow should start unaccepted")
	}
	if b.BorrowerID != u2 || b.LenderID != u1 || b.ItemID != "I1" {
		t.Errorf("borrow fields wrong: %+v", b)
	}
	it, _ := s.GetItem(context.Background(), "I1")
	if it.Available {
		t.Error("item should be unavailable after a borrow request")
	}
}

func TestCreateBorrow_Preconditions(t *testing.T) {
	tests := []struct {
		name string
		in   CreateBorrowInput
		kind apperr.Kind
	}{
		{
			name: "item missing",
			in:   CreateBorrowInput{ItemID: "nope", BorrowerID: u2, LenderID: u1, BorrowDuration: 2, CallerID: u2},
			kind: apperr.KindNotFound,
		},
		{
			name: "lender is not the owner",
			in:   CreateBorrowInput{ItemID: "I1", BorrowerID: u2, LenderID: u3, BorrowDuration: 2, CallerID: u2},
			kind: apperr.KindConflict,
		},
		{
			name: "borrower does not exist",
			in:   CreateBorrowInput{ItemID: "I1", BorrowerID: "9999999", LenderID: u1, BorrowDuration: 2, CallerID: "9999999"},
			kind: apperr.KindNotFound,
		},
		{
			name: "duration below minimum",
			in:   CreateBorrowInput{ItemID: "I1", BorrowerID: u2, LenderID: u1, BorrowDuration: 0, CallerID: u2},
			kind: apperr.KindInvalidInput,
		},
		{
			name: "caller is not the borrower",
			in:   CreateBorrowInput{ItemID: "I1", BorrowerID: u2, LenderID: u1, BorrowDuration: 2, CallerID: u3},
			kind: apperr.KindUnauthorized,
		},
		{
			name: "borrowing your own item",
			in:   CreateBorrowInput{ItemID: "I1", BorrowerID: u1, LenderID: u1, BorrowDuration: 2, CallerID: u1},
			kind: apperr.KindConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(seedStore())
			_, err := e.CreateBorrow(context.Background(), tt.in)
			wantKind(t, err, tt.kind)
		})
	}
}

func TestCreateBorrow_RejectsUnavailableItem(t *testing.T) {
	s := seedStore()
	e := newTestEngine(s)
	requestBorrow(t, e, u2, 2)

	// Every retry against the locked item conflicts, no matter who asks.
	for _, borrower := range []string{u3, u2} {
		_, err := e.CreateBorrow(context.Background(), CreateBorrowInput{
			ItemID: "I1", BorrowerID: borrower, LenderID: u1,
			BorrowDuration: 1, CallerID: borrower,
		})
		wantKind(t, err, apperr.KindConflict)
	}
}

func TestCreateBorrow_ConcurrentRequestsOneWinner(t *testing.T) {
	s := seedStore()
	e := newTestEngine(s)

	const n = 32
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.CreateBorrow(context.Background(), CreateBorrowInput{
				ItemID: "I1", BorrowerID: u2, LenderID: u1,
				BorrowDuration: 1, CallerID: u2,
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else if apperr.KindOf(err) != apperr.KindConflict {
			t.Errorf("loser got %v, want Conflict", err)
		}
	}
	if wins != 1 {
		t.Fatalf("winners = %d, want exactly 1", wins)
	}
	if len(s.borrows) != 1 {
		t.Fatalf("borrow rows = %d, want 1", len(s.borrows))
	}
}

func TestCreateBorrow_StorageFailureSurfacesAndReconciles(t *testing.T) {
	s := seedStore()
	s.createBorrowErr = errors.New("disk full")
	e := newTestEngine(s)

	_, err := e.CreateBorrow(context.Background(), CreateBorrowInput{
		ItemID: "I1", BorrowerID: u2, LenderID: u1, BorrowDuration: 2, CallerID: u2,
	})
	wantKind(t, err, apperr.KindInternal)

	// The fake store has no rollback, so the item is stranded unavailable —
	// exactly what the reconcile sweep exists for.
	s.createBorrowErr = nil
	repaired, err := e.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile() failed: %v", err)
	}
	if len(repaired) != 1 || repaired[0] != "I1" {
		t.Fatalf("repaired = %v, want [I1]", repaired)
	}
	it, _ := s.GetItem(context.Background(), "I1")
	if !it.Available {
		t.Error("item should be available after reconcile")
	}
}

// --- AcceptBorrow ---

func TestAcceptBorrow(t *testing.T) {
	s := seedStore()
	e := newTestEngine(s)
	b := requestBorrow(t, e, u2, 2)

	t.Run("wrong caller", func(t *testing.T) {
		_, err := e.AcceptBorrow(context.Background(), b.ID, u2)
		wantKind(t, err, apperr.KindUnauthorized)
	})
	t.Run("missing borrow", func(t *testing.T) {
		_, err := e.AcceptBorrow(context.Background(), "nope", u1)
		wantKind(t, err, apperr.KindNotFound)
	})
	t.Run("lender accepts", func(t *testing.T) {
		got, err := e.AcceptBorrow(context.Background(), b.ID, u1)
		if err != nil {
			t.Fatalf("AcceptBorrow() failed: %v", err)
		}
		if !got.PendingStat {
			t.Error("pendingStat should be true after accept")
		}
	})
	t.Run("accept again is a no-op", func(t *testing.T) {
		got, err := e.AcceptBorrow(context.Background(), b.ID, u1)
		if err != nil {
			t.Fatalf("second AcceptBorrow() failed: %v", err)
		}
		if !got.PendingStat {
			t.Error("pendingStat should stay true")
		}
	})
}

// --- DeleteBorrow ---

func TestDeleteBorrow_ReleasesItem(t *testing.T) {
	s := seedStore()
	e := newTestEngine(s)
	b := requestBorrow(t, e, u2, 2)

	if _, err := e.AcceptBorrow(context.Background(), b.ID, u2); err == nil {
		t.Fatal("borrower must not be able to accept")
	}
	if err := e.DeleteBorrow(context.Background(), b.ID, u2); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("borrower delete = %v, want Unauthorized", err)
	}

	if err := e.DeleteBorrow(context.Background(), b.ID, u1); err != nil {
		t.Fatalf("DeleteBorrow() failed: %v", err)
	}
	it, _ := s.GetItem(context.Background(), "I1")
	if !it.Available {
		t.Error("item should be available after decline")
	}
	if _, err := s.GetBorrow(context.Background(), b.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Error("borrow should be gone after decline")
	}
}

func TestDeleteBorrow_MissingBorrow(t *testing.T) {
	e := newTestEngine(seedStore())
	wantKind(t, e.DeleteBorrow(context.Background(), "nope", u1), apperr.KindNotFound)
}

func TestDeleteBorrow_BlockedByOpenTransaction(t *testing.T) {
	s := seedStore()
	e := newTestEngine(s)
	b := requestBorrow(t, e, u2, 2)
	mustAccept(t, e, b.ID)
	mustOpenTransaction(t, e, b.ID, 300, u2)

	wantKind(t, e.DeleteBorrow(context.Background(), b.ID, u1), apperr.KindConflict)
}

// --- CreateTransaction ---

func mustAccept(t *testing.T, e *Engine, borrowID string) {
	t.Helper()
	if _, err := e.AcceptBorrow(context.Background(), borrowID, u1); err != nil {
		t.Fatalf("AcceptBorrow() failed: %v", err)
	}
}

func mustOpenTransaction(t *testing.T, e *Engine, borrowID string, price int, caller string) *models.Transaction {
	t.Helper()
	txn, err := e.CreateTransaction(context.Background(), CreateTransactionInput{
		BorrowID: borrowID, TotalPrice: price, CallerID: caller,
	})
	if err != nil {
		t.Fatalf("CreateTransaction() failed: %v", err)
	}
	return txn
}

func TestCreateTransaction_SnapshotsItemAndBorrow(t *testing.T) {
	s := seedStore()
	e := newTestEngine(s)
	b := requestBorrow(t, e, u2, 2)
	mustAccept(t, e, b.ID)

	txn := mustOpenTransaction(t, e, b.ID, 300, u2)

	if txn.ReturnStatus {
		t.Error("new transaction should be open")
	}
	if txn.ItemInfo.Name != "vacuum cleaner" || txn.ItemInfo.PricePerDay != 120 {
		t.Errorf("item snapshot wrong: %+v", txn.ItemInfo)
	}
	if txn.ItemInfo.Location != "dorm A" || txn.ItemInfo.ItemDescription != "1200W" {
		t.Errorf("item snapshot wrong: %+v", txn.ItemInfo)
	}
	bi := txn.BorrowInfo
	if bi.BorrowID != b.ID || bi.BorrowerID != u2 || bi.LenderID != u1 || bi.BorrowDuration != 2 {
		t.Errorf("borrow snapshot wrong: %+v", bi)
	}
}

func TestCreateTransaction_Preconditions(t *testing.T) {
	t.Run("borrow missing", func(t *testing.T) {
		e := newTestEngine(seedStore())
		_, err := e.CreateTransaction(context.Background(), CreateTransactionInput{
			BorrowID: "nope", TotalPrice: 300, CallerID: u1,
		})
		wantKind(t, err, apperr.KindNotFound)
	})
	t.Run("price below minimum", func(t *testing.T) {
		e := newTestEngine(seedStore())
		_, err := e.CreateTransaction(context.Background(), CreateTransactionInput{
			BorrowID: "whatever", TotalPrice: 49, CallerID: u1,
		})
		wantKind(t, err, apperr.KindInvalidInput)
	})
	t.Run("borrow not accepted", func(t *testing.T) {
		e := newTestEngine(seedStore())
		b := requestBorrow(t, e, u2, 2)
		_, err := e.CreateTransaction(context.Background(), CreateTransactionInput{
			BorrowID: b.ID, TotalPrice: 300, CallerID: u1,
		})
		wantKind(t, err, apperr.KindConflict)
	})
	t.Run("caller not a party", func(t *testing.T) {
		e := newTestEngine(seedStore())
		b := requestBorrow(t, e, u2, 2)
		mustAccept(t, e, b.ID)
		_, err := e.CreateTransaction(context.Background(), CreateTransactionInput{
			BorrowID: b.ID, TotalPrice: 300, CallerID: u3,
		})
		wantKind(t, err, apperr.KindUnauthorized)
	})
	t.Run("second open transaction", func(t *testing.T) {
		e := newTestEngine(seedStore())
		b := requestBorrow(t, e, u2, 2)
		mustAccept(t, e, b.ID)
		mustOpenTransaction(t, e, b.ID, 300, u2)
		_, err := e.CreateTransaction(context.Background(), CreateTransactionInput{
			BorrowID: b.ID, TotalPrice: 300, CallerID: u1,
		})
		wantKind(t, err, apperr.KindConflict)
	})
}

// --- CompleteTransaction ---

func TestCompleteTransaction(t *testing.T) {
	s := seedStore()
	e := newTestEngine(s)
	b := requestBorrow(t, e, u2, 2)
	mustAccept(t, e, b.ID)
	txn := mustOpenTransaction(t, e, b.ID, 300, u2)

	t.Run("lender cannot confirm the return", func(t *testing.T) {
		_, err := e.CompleteTransaction(context.Background(), txn.ID, u1)
		wantKind(t, err, apperr.KindUnauthorized)
	})
	t.Run("missing transaction", func(t *testing.T) {
		_, err := e.CompleteTransaction(context.Background(), "nope", u2)
		wantKind(t, err, apperr.KindNotFound)
	})
	t.Run("borrower confirms", func(t *testing.T) {
		got, err := e.CompleteTransaction(context.Background(), txn.ID, u2)
		if err != nil {
			t.Fatalf("CompleteTransaction() failed: %v", err)
		}
		if !got.ReturnStatus {
			t.Error("returnStatus should be true")
		}
		it, _ := s.GetItem(context.Background(), "I1")
		if !it.Available {
			t.Error("item should be available again")
		}
		if _, err := s.GetBorrow(context.Background(), b.ID); apperr.KindOf(err) != apperr.KindNotFound {
			t.Error("borrow should be deleted after the return")
		}
	})
	t.Run("complete again is a no-op", func(t *testing.T) {
		got, err := e.CompleteTransaction(context.Background(), txn.ID, u2)
		if err != nil {
			t.Fatalf("second CompleteTransaction() failed: %v", err)
		}
		if !got.ReturnStatus {
			t.Error("returnStatus should stay true")
		}
	})
	t.Run("item can be borrowed again", func(t *testing.T) {
		requestBorrow(t, e, u3, 1)
	})
}

// --- Reconcile ---

func TestReconcile_LeavesHealthyItemsAlone(t *testing.T) {
	s := seedStore()
	s.items["I2"] = &models.Item{ID: "I2", Name: "drill", PricePerDay: 80, OwnerID: u1, Location: "dorm B", Available: true}
	e := newTestEngine(s)
	b := requestBorrow(t, e, u2, 2) // I1 legitimately locked

	repaired, err := e.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile() failed: %v", err)
	}
	if len(repaired) != 0 {
		t.Fatalf("repaired = %v, want none", repaired)
	}
	it, _ := s.GetItem(context.Background(), b.ItemID)
	if it.Available {
		t.Error("legitimately borrowed item must stay unavailable")
	}
}
