package store

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/homeledger/homeledger/internal/aggregate"
	"github.com/homeledger/homeledger/internal/dto"
	"github.com/homeledger/homeledger/internal/errs"
	"github.com/homeledger/homeledger/internal/models"
	"github.com/homeledger/homeledger/internal/recurrence"
	"github.com/homeledger/homeledger/internal/validate"
	"github.com/homeledger/homeledger/pkg/helpers"
	"github.com/homeledger/homeledger/pkg/logger"
)

type remoteRecords interface {
	ListRecords(ctx context.Context) ([]models.Transaction, error)
	CreateRecord(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	UpdateRecord(ctx context.Context, id string, tx models.Transaction) (models.Transaction, error)
	DeleteRecord(ctx context.Context, id string, cancelRecurring bool) error
}

// TransactionStore owns the local transaction collection. All remote
// calls go out before any local mutation, so a failed call leaves the
// collection exactly as it was.
type TransactionStore struct {
	remote remoteRecords

	mu     sync.Mutex
	txs    []models.Transaction
	states map[string]RecordState

	editID        string
	pendingDelete string
	deleteStage   deleteStage
}

func NewTransactionStore(remote remoteRecords) *TransactionStore {
	return &TransactionStore{
		remote: remote,
		states: make(map[string]RecordState),
	}
}

// Refresh replaces the collection with the server's view and resets
// any in-progress edit or delete.
func (s *TransactionStore) Refresh(ctx context.Context) error {
	txs, err := s.remote.ListRecords(ctx)
	if err != nil {
		return err
	}
	recurrence.SortNewestFirst(txs)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = txs
	s.states = make(map[string]RecordState, len(txs))
	for _, tx := range txs {
		s.states[tx.ID] = StatePersisted
	}
	s.editID = ""
	s.pendingDelete = ""
	s.deleteStage = deleteClosed
	return nil
}

// List returns a copy of the collection, newest first.
func (s *TransactionStore) List() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Transaction, len(s.txs))
	copy(out, s.txs)
	return out
}

// Filter narrows the collection by recurrence without touching it.
func (s *TransactionStore) Filter(f recurrence.Filter) []models.Transaction {
	return recurrence.Apply(s.List(), f)
}

// Totals recomputes per-currency income and expense sums from the
// current collection.
func (s *TransactionStore) Totals() map[string]aggregate.Totals {
	return aggregate.ByCurrency(s.List())
}

// TotalsFor returns the totals for one currency, zero-valued when the
// collection has no records in it.
func (s *TransactionStore) TotalsFor(currency string) aggregate.Totals {
	return aggregate.For(s.Totals(), currency)
}

// State reports the lifecycle state of a record, false when the id is
// unknown.
func (s *TransactionStore) State(id string) (RecordState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[id]
	return st, ok
}

// Create validates the draft and submits it. Validation failures stop
// before any network traffic; remote failures leave the collection
// untouched. On success the server-assigned record joins the
// collection and the temporary id is discarded.
func (s *TransactionStore) Create(ctx context.Context, d dto.TransactionDraft) (models.Transaction, error) {
	log := logger.FromContext(ctx)

	tempID := newTempID()
	s.setState(tempID, StateValidating)
	if fields := validate.Transaction(d); len(fields) > 0 {
		s.setState(tempID, StateInvalid)
		return models.Transaction{}, errs.NewValidationError(fields)
	}

	tx := transactionFromDraft(d)
	tx.ID = tempID
	s.setState(tempID, StateSubmitting)

	persisted, err := s.remote.CreateRecord(ctx, tx)
	if err != nil {
		s.setState(tempID, StateFailed)
		log.Error("transaction create failed", "error", err)
		return models.Transaction{}, err
	}

	s.mu.Lock()
	s.txs = append(s.txs, persisted)
	recurrence.SortNewestFirst(s.txs)
	delete(s.states, tempID)
	s.states[persisted.ID] = StatePersisted
	s.mu.Unlock()

	log.Info("transaction created", "id", persisted.ID)
	return persisted, nil
}

// Update patches a record and submits the result through the same
// validate-then-remote path as Create. Nil patch fields keep the
// record's current values.
func (s *TransactionStore) Update(ctx context.Context, id string, p dto.TransactionPatch) (models.Transaction, error) {
	current, ok := s.find(id)
	if !ok {
		return models.Transaction{}, errs.NewNotFoundError("transaction " + id + " not found")
	}
	d := draftFromTransaction(current)
	applyTransactionPatch(&d, p)
	return s.applyUpdate(ctx, id, d)
}

// BeginEdit loads a record's fields into a draft. Only one draft may
// be open at a time; submit or cancel it before editing another
// record.
func (s *TransactionStore) BeginEdit(id string) (dto.TransactionDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editID != "" {
		return dto.TransactionDraft{}, errs.NewConflictError("another edit is already in progress")
	}
	tx, ok := s.findLocked(id)
	if !ok {
		return dto.TransactionDraft{}, errs.NewNotFoundError("transaction " + id + " not found")
	}
	s.editID = id
	s.states[id] = StateDraft
	return draftFromTransaction(tx), nil
}

// SubmitEdit runs the open draft through the update path. On
// validation failure the draft stays open so the caller can fix the
// fields and resubmit.
func (s *TransactionStore) SubmitEdit(ctx context.Context, d dto.TransactionDraft) (models.Transaction, error) {
	s.mu.Lock()
	id := s.editID
	s.mu.Unlock()
	if id == "" {
		return models.Transaction{}, errs.NewConflictError("no edit in progress")
	}

	updated, err := s.applyUpdate(ctx, id, d)
	if err != nil {
		return models.Transaction{}, err
	}

	s.mu.Lock()
	s.editID = ""
	s.mu.Unlock()
	return updated, nil
}

// CancelEdit discards the open draft, leaving the record as it was.
func (s *TransactionStore) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editID == "" {
		return
	}
	s.states[s.editID] = StatePersisted
	s.editID = ""
}

// RequestDelete opens the delete confirmation for a record. Nothing is
// removed until ConfirmDelete; requesting another record moves the
// confirmation there.
func (s *TransactionStore) RequestDelete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteStage == deleteConfirming {
		return errs.NewConflictError("a delete is already being confirmed")
	}
	if _, ok := s.findLocked(id); !ok {
		return errs.NewNotFoundError("transaction " + id + " not found")
	}
	s.pendingDelete = id
	s.deleteStage = deleteOpen
	return nil
}

// CancelDelete closes the confirmation without touching the record.
func (s *TransactionStore) CancelDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteStage == deleteConfirming {
		return
	}
	s.pendingDelete = ""
	s.deleteStage = deleteClosed
}

// ConfirmDelete issues the remote delete for the record whose
// confirmation is open and removes it locally on success. Without a
// prior RequestDelete it fails, so a single call can never delete. A
// remote failure reopens the confirmation and keeps the record.
func (s *TransactionStore) ConfirmDelete(ctx context.Context, cancelRecurring bool) error {
	s.mu.Lock()
	if s.deleteStage != deleteOpen {
		s.mu.Unlock()
		return errs.NewConflictError("no delete confirmation is open")
	}
	id := s.pendingDelete
	s.deleteStage = deleteConfirming
	s.mu.Unlock()

	log := logger.FromContext(ctx)
	if err := s.remote.DeleteRecord(ctx, id, cancelRecurring); err != nil {
		s.mu.Lock()
		s.deleteStage = deleteOpen
		s.mu.Unlock()
		log.Error("transaction delete failed", "id", id, "error", err)
		return err
	}

	s.mu.Lock()
	s.removeLocked(id)
	delete(s.states, id)
	s.pendingDelete = ""
	s.deleteStage = deleteClosed
	s.mu.Unlock()

	log.Info("transaction deleted", "id", id)
	return nil
}

func (s *TransactionStore) applyUpdate(ctx context.Context, id string, d dto.TransactionDraft) (models.Transaction, error) {
	log := logger.FromContext(ctx)

	s.setState(id, StateValidating)
	if fields := validate.Transaction(d); len(fields) > 0 {
		s.setState(id, StateInvalid)
		return models.Transaction{}, errs.NewValidationError(fields)
	}

	tx := transactionFromDraft(d)
	tx.ID = id
	s.setState(id, StateSubmitting)

	updated, err := s.remote.UpdateRecord(ctx, id, tx)
	if err != nil {
		s.setState(id, StateFailed)
		log.Error("transaction update failed", "id", id, "error", err)
		return models.Transaction{}, err
	}

	s.mu.Lock()
	for i := range s.txs {
		if s.txs[i].ID == id {
			s.txs[i] = updated
			break
		}
	}
	recurrence.SortNewestFirst(s.txs)
	s.states[updated.ID] = StatePersisted
	s.mu.Unlock()

	log.Info("transaction updated", "id", id)
	return updated, nil
}

func (s *TransactionStore) setState(id string, st RecordState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[id] = st
}

func (s *TransactionStore) find(id string) (models.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(id)
}

func (s *TransactionStore) findLocked(id string) (models.Transaction, bool) {
	for _, tx := range s.txs {
		if tx.ID == id {
			return tx, true
		}
	}
	return models.Transaction{}, false
}

func (s *TransactionStore) removeLocked(id string) {
	for i := range s.txs {
		if s.txs[i].ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return
		}
	}
}

func transactionFromDraft(d dto.TransactionDraft) models.Transaction {
	amount, _ := decimal.NewFromString(strings.TrimSpace(d.Amount))
	date, _ := validate.ParseDate(d.Date)
	currency := d.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}
	tx := models.Transaction{
		Description: strings.TrimSpace(d.Description),
		Amount:      amount,
		Currency:    currency,
		Mode:        models.Mode(d.Mode),
		Category:    d.Category,
		Date:        date,
		IsRecurring: d.IsRecurring,
	}
	if d.IsRecurring {
		if freq, ok := models.ParseFrequency(d.Frequency); ok {
			tx.Frequency = freq
		}
	}
	return tx
}

func draftFromTransaction(tx models.Transaction) dto.TransactionDraft {
	return dto.TransactionDraft{
		Description: tx.Description,
		Amount:      tx.Amount.String(),
		Currency:    tx.Currency,
		Mode:        string(tx.Mode),
		Category:    tx.Category,
		Date:        tx.Date.Format("2006-01-02"),
		IsRecurring: tx.IsRecurring,
		Frequency:   string(tx.Frequency),
	}
}

func applyTransactionPatch(d *dto.TransactionDraft, p dto.TransactionPatch) {
	d.Description = helpers.ValueOr(p.Description, d.Description)
	d.Amount = helpers.ValueOr(p.Amount, d.Amount)
	d.Currency = helpers.ValueOr(p.Currency, d.Currency)
	d.Mode = helpers.ValueOr(p.Mode, d.Mode)
	d.Category = helpers.ValueOr(p.Category, d.Category)
	d.Date = helpers.ValueOr(p.Date, d.Date)
	d.IsRecurring = helpers.ValueOr(p.IsRecurring, d.IsRecurring)
	d.Frequency = helpers.ValueOr(p.Frequency, d.Frequency)
}
