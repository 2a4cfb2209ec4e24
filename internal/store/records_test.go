package store

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/homeledger/homeledger/internal/dto"
	"github.com/homeledger/homeledger/internal/errs"
	"github.com/homeledger/homeledger/internal/models"
	"github.com/homeledger/homeledger/internal/recurrence"
	"github.com/homeledger/homeledger/pkg/helpers"
)

type fakeRecordsAPI struct {
	records []models.Transaction
	nextID  int

	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int

	failNext        error
	lastCancelParam bool
}

func newFakeRecordsAPI(seed ...models.Transaction) *fakeRecordsAPI {
	return &fakeRecordsAPI{records: seed, nextID: 100}
}

func (f *fakeRecordsAPI) takeErr() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeRecordsAPI) ListRecords(_ context.Context) ([]models.Transaction, error) {
	f.listCalls++
	if err := f.takeErr(); err != nil {
		return nil, err
	}
	out := make([]models.Transaction, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeRecordsAPI) CreateRecord(_ context.Context, tx models.Transaction) (models.Transaction, error) {
	f.createCalls++
	if err := f.takeErr(); err != nil {
		return models.Transaction{}, err
	}
	tx.ID = strconv.Itoa(f.nextID)
	f.nextID++
	f.records = append(f.records, tx)
	return tx, nil
}

func (f *fakeRecordsAPI) UpdateRecord(_ context.Context, id string, tx models.Transaction) (models.Transaction, error) {
	f.updateCalls++
	if err := f.takeErr(); err != nil {
		return models.Transaction{}, err
	}
	tx.ID = id
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i] = tx
			return tx, nil
		}
	}
	return models.Transaction{}, errs.NewNotFoundError("record not found on the server")
}

func (f *fakeRecordsAPI) DeleteRecord(_ context.Context, id string, cancelRecurring bool) error {
	f.deleteCalls++
	f.lastCancelParam = cancelRecurring
	if err := f.takeErr(); err != nil {
		return err
	}
	for i := range f.records {
		if f.records[i].ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return errs.NewNotFoundError("record not found on the server")
}

func seedTransaction(id, date string) models.Transaction {
	d, _ := time.Parse("2006-01-02", date)
	return models.Transaction{
		ID:          id,
		Description: "Seed " + id,
		Amount:      decimal.NewFromInt(10),
		Currency:    models.DefaultCurrency,
		Mode:        models.ModeExpense,
		Category:    "Groceries",
		Date:        d,
	}
}

func validDraft() dto.TransactionDraft {
	return dto.TransactionDraft{
		Description: "Weekly groceries",
		Amount:      "42.50",
		Currency:    "USD",
		Mode:        "expense",
		Category:    "Groceries",
		Date:        "2026-08-20",
	}
}

func TestTransactionStoreRefreshSortsNewestFirst(t *testing.T) {
	api := newFakeRecordsAPI(
		seedTransaction("1", "2026-01-05"),
		seedTransaction("2", "2026-03-01"),
		seedTransaction("3", "2026-02-10"),
	)
	s := NewTransactionStore(api)

	if err := s.Refresh(helpers.TestCtx()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	got := s.List()
	wantOrder := []string{"2", "3", "1"}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Fatalf("position %d: got id %q, want %q", i, got[i].ID, id)
		}
	}
	if st, ok := s.State("2"); !ok || st != StatePersisted {
		t.Fatalf("state of refreshed record: got %v, %t", st, ok)
	}
}

func TestTransactionStoreCreatePersistsWithServerID(t *testing.T) {
	api := newFakeRecordsAPI(seedTransaction("1", "2026-01-05"))
	s := NewTransactionStore(api)
	ctx := helpers.TestCtx()
	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	tx, err := s.Create(ctx, validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tx.ID != "100" {
		t.Fatalf("got id %q, want server-assigned 100", tx.ID)
	}
	if tx.Amount.String() != "42.5" {
		t.Fatalf("got amount %s, want 42.5", tx.Amount)
	}

	got := s.List()
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	// 2026-08-20 is newer than the seed, so the new record leads.
	if got[0].ID != "100" {
		t.Fatalf("got leading id %q, want 100", got[0].ID)
	}
	if st, ok := s.State("100"); !ok || st != StatePersisted {
		t.Fatalf("state: got %v, %t", st, ok)
	}
}

func TestTransactionStoreCreateInvalidSkipsRemote(t *testing.T) {
	api := newFakeRecordsAPI()
	s := NewTransactionStore(api)

	d := validDraft()
	d.Description = "   "
	d.Amount = "-5"

	_, err := s.Create(helpers.TestCtx(), d)

	var vErr *errs.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("got %T, want ValidationError", err)
	}
	if vErr.Fields["description"] == "" || vErr.Fields["amount"] == "" {
		t.Fatalf("missing field errors: %v", vErr.Fields)
	}
	if api.createCalls != 0 {
		t.Fatalf("remote was called %d times for an invalid draft", api.createCalls)
	}
	if len(s.List()) != 0 {
		t.Fatal("collection changed on invalid draft")
	}
}

func TestTransactionStoreCreateRemoteFailureLeavesCollection(t *testing.T) {
	api := newFakeRecordsAPI(seedTransaction("1", "2026-01-05"))
	s := NewTransactionStore(api)
	ctx := helpers.TestCtx()
	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	api.failNext = errs.NewNetworkError(errors.New("connection refused"))
	_, err := s.Create(ctx, validDraft())

	var nErr *errs.NetworkError
	if !errors.As(err, &nErr) {
		t.Fatalf("got %T, want NetworkError", err)
	}
	if len(s.List()) != 1 {
		t.Fatal("collection changed after a failed create")
	}
}

func TestTransactionStoreUpdatePatchKeepsUnsetFields(t *testing.T) {
	api := newFakeRecordsAPI(seedTransaction("1", "2026-01-05"))
	s := NewTransactionStore(api)
	ctx := helpers.TestCtx()
	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	updated, err := s.Update(ctx, "1", dto.TransactionPatch{
		Amount: helpers.Ptr("99.99"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Amount.String() != "99.99" {
		t.Fatalf("got amount %s, want 99.99", updated.Amount)
	}
	if updated.Description != "Seed 1" {
		t.Fatalf("unset field changed: description %q", updated.Description)
	}
	if api.updateCalls != 1 {
		t.Fatalf("got %d update calls, want 1", api.updateCalls)
	}
}

func TestTransactionStoreUpdateUnknownID(t *testing.T) {
	s := NewTransactionStore(newFakeRecordsAPI())

	_, err := s.Update(helpers.TestCtx(), "does-not-exist", dto.TransactionPatch{})

	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("got %T, want NotFoundError", err)
	}
}

func TestTransactionStoreSingleDraftAtATime(t *testing.T) {
	api := newFakeRecordsAPI(
		seedTransaction("1", "2026-01-05"),
		seedTransaction("2", "2026-02-05"),
	)
	s := NewTransactionStore(api)
	ctx := helpers.TestCtx()
	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if _, err := s.BeginEdit("1"); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	if st, _ := s.State("1"); st != StateDraft {
		t.Fatalf("state under edit: got %v, want draft", st)
	}

	_, err := s.BeginEdit("2")
	var conflict *errs.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("second edit: got %T, want ConflictError", err)
	}

	s.CancelEdit()
	if st, _ := s.State("1"); st != StatePersisted {
		t.Fatalf("state after cancel: got %v, want persisted", st)
	}
	if _, err := s.BeginEdit("2"); err != nil {
		t.Fatalf("edit after cancel: %v", err)
	}
}

func TestTransactionStoreSubmitEditRoundTrip(t *testing.T) {
	api := newFakeRecordsAPI(seedTransaction("1", "2026-01-05"))
	s := NewTransactionStore(api)
	ctx := helpers.TestCtx()
	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	d, err := s.BeginEdit("1")
	if err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	if d.Description != "Seed 1" || d.Amount != "10" {
		t.Fatalf("draft not loaded from record: %+v", d)
	}

	d.Description = "Adjusted"
	updated, err := s.SubmitEdit(ctx, d)
	if err != nil {
		t.Fatalf("submit edit: %v", err)
	}
	if updated.Description != "Adjusted" {
		t.Fatalf("got %q, want Adjusted", updated.Description)
	}

	// The draft slot is free again.
	if _, err := s.BeginEdit("1"); err != nil {
		t.Fatalf("edit after submit: %v", err)
	}
}

func TestTransactionStoreSubmitEditInvalidKeepsDraftOpen(t *testing.T) {
	api := newFakeRecordsAPI(seedTransaction("1", "2026-01-05"))
	s := NewTransactionStore(api)
	ctx := helpers.TestCtx()
	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	d, err := s.BeginEdit("1")
	if err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	d.Amount = "not-a-number"

	_, err = s.SubmitEdit(ctx, d)
	var vErr *errs.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("got %T, want ValidationError", err)
	}
	if api.updateCalls != 0 {
		t.Fatal("remote was called for an invalid draft")
	}

	// Still editing record 1, so another edit is refused.
	_, err = s.BeginEdit("1")
	var conflict *errs.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("got %T, want ConflictError while draft is open", err)
	}

	d.Amount = "15"
	if _, err := s.SubmitEdit(ctx, d); err != nil {
		t.Fatalf("resubmit after fixing: %v", err)
	}
}

func TestTransactionStoreSubmitEditWithoutBegin(t *testing.T) {
	s := NewTransactionStore(newFakeRecordsAPI())

	_, err := s.SubmitEdit(helpers.TestCtx(), validDraft())

	var conflict *errs.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("got %T, want ConflictError", err)
	}
}

func TestTransactionStoreDeleteNeedsTwoActions(t *testing.T) {
	api := newFakeRecordsAPI(seedTransaction("1", "2026-01-05"))
	s := NewTransactionStore(api)
	ctx := helpers.TestCtx()
	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	// Confirming with no request open must fail.
	err := s.ConfirmDelete(ctx, false)
	var conflict *errs.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("got %T, want ConflictError", err)
	}
	if api.deleteCalls != 0 {
		t.Fatal("remote delete issued without confirmation")
	}

	if err := s.RequestDelete("1"); err != nil {
		t.Fatalf("request delete: %v", err)
	}
	if len(s.List()) != 1 {
		t.Fatal("record removed before confirmation")
	}

	if err := s.ConfirmDelete(ctx, true); err != nil {
		t.Fatalf("confirm delete: %v", err)
	}
	if len(s.List()) != 0 {
		t.Fatal("record still present after confirmed delete")
	}
	if !api.lastCancelParam {
		t.Fatal("cancelRecurring was not forwarded")
	}
	if _, ok := s.State("1"); ok {
		t.Fatal("state retained for a deleted record")
	}
}

func TestTransactionStoreCancelDeleteClosesConfirmation(t *testing.T) {
	api := newFakeRecordsAPI(seedTransaction("1", "2026-01-05"))
	s := NewTransactionStore(api)
	ctx := helpers.TestCtx()
	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if err := s.RequestDelete("1"); err != nil {
		t.Fatalf("request delete: %v", err)
	}
	s.CancelDelete()

	err := s.ConfirmDelete(ctx, false)
	var conflict *errs.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("confirm after cancel: got %T, want ConflictError", err)
	}
	if len(s.List()) != 1 {
		t.Fatal("record lost after cancelled delete")
	}
}

func TestTransactionStoreDeleteRemoteFailureKeepsRecord(t *testing.T) {
	api := newFakeRecordsAPI(seedTransaction("1", "2026-01-05"))
	s := NewTransactionStore(api)
	ctx := helpers.TestCtx()
	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if err := s.RequestDelete("1"); err != nil {
		t.Fatalf("request delete: %v", err)
	}
	api.failNext = errs.NewNetworkError(errors.New("connection reset"))
	if err := s.ConfirmDelete(ctx, false); err == nil {
		t.Fatal("expected the remote failure to surface")
	}
	if len(s.List()) != 1 {
		t.Fatal("record removed despite remote failure")
	}

	// The confirmation stays open, so a retry works without a new
	// request.
	if err := s.ConfirmDelete(ctx, false); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if len(s.List()) != 0 {
		t.Fatal("record still present after retried delete")
	}
}

func TestTransactionStoreFilterAndTotals(t *testing.T) {
	rec := seedTransaction("1", "2026-01-05")
	rec.IsRecurring = true
	rec.Frequency = models.FrequencyMonthly

	income := seedTransaction("2", "2026-02-05")
	income.Mode = models.ModeIncome
	income.Category = "Salary"
	income.Amount = decimal.NewFromInt(50)

	api := newFakeRecordsAPI(rec, income)
	s := NewTransactionStore(api)
	if err := s.Refresh(helpers.TestCtx()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	recurring := s.Filter(recurrence.FilterRecurring)
	if len(recurring) != 1 || recurring[0].ID != "1" {
		t.Fatalf("recurring filter: %+v", recurring)
	}

	usd := s.TotalsFor("USD")
	if usd.Expense.String() != "10" || usd.Income.String() != "50" {
		t.Fatalf("totals: expense %s income %s", usd.Expense, usd.Income)
	}
	if usd.Net().String() != "40" {
		t.Fatalf("net: %s", usd.Net())
	}
	if eur := s.TotalsFor("EUR"); !eur.Income.IsZero() || !eur.Expense.IsZero() {
		t.Fatalf("EUR totals should be zero-valued: %+v", eur)
	}
}
