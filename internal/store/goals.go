package store

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/homeledger/homeledger/internal/dto"
	"github.com/homeledger/homeledger/internal/errs"
	"github.com/homeledger/homeledger/internal/goals"
	"github.com/homeledger/homeledger/internal/models"
	"github.com/homeledger/homeledger/internal/validate"
	"github.com/homeledger/homeledger/pkg/helpers"
	"github.com/homeledger/homeledger/pkg/logger"
)

type remoteGoals interface {
	ListGoals(ctx context.Context) ([]models.Goal, error)
	CreateGoal(ctx context.Context, g models.Goal) (models.Goal, error)
	UpdateGoal(ctx context.Context, id string, g models.Goal) (models.Goal, error)
	DeleteGoal(ctx context.Context, id string) error
}

// GoalSummary rolls the whole goal collection up into one savings
// figure.
type GoalSummary struct {
	Saved    decimal.Decimal
	Target   decimal.Decimal
	Progress float64
}

// GoalStore owns the local goal collection under the same discipline
// as TransactionStore: validate, call the remote, then mutate.
type GoalStore struct {
	remote remoteGoals

	mu     sync.Mutex
	goals  []models.Goal
	states map[string]RecordState

	editID        string
	pendingDelete string
	deleteStage   deleteStage
}

func NewGoalStore(remote remoteGoals) *GoalStore {
	return &GoalStore{
		remote: remote,
		states: make(map[string]RecordState),
	}
}

// Refresh replaces the collection with the server's view and resets
// any in-progress edit or delete.
func (s *GoalStore) Refresh(ctx context.Context) error {
	gs, err := s.remote.ListGoals(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = gs
	s.states = make(map[string]RecordState, len(gs))
	for _, g := range gs {
		s.states[g.ID] = StatePersisted
	}
	s.editID = ""
	s.pendingDelete = ""
	s.deleteStage = deleteClosed
	return nil
}

// List returns a copy of the collection, most recently created first.
func (s *GoalStore) List() []models.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Goal, len(s.goals))
	copy(out, s.goals)
	return out
}

// Summary sums saved and target amounts across every goal. Progress is
// clamped to [0,100] and zero when there are no targets.
func (s *GoalStore) Summary() GoalSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := GoalSummary{Saved: decimal.Zero, Target: decimal.Zero}
	for _, g := range s.goals {
		sum.Saved = sum.Saved.Add(g.CurrentAmount)
		sum.Target = sum.Target.Add(g.TargetAmount)
	}
	sum.Progress = goals.ProgressPercent(models.Goal{
		TargetAmount:  sum.Target,
		CurrentAmount: sum.Saved,
	})
	return sum
}

// State reports the lifecycle state of a goal, false when the id is
// unknown.
func (s *GoalStore) State(id string) (RecordState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[id]
	return st, ok
}

// Create validates the draft and submits it. The server-assigned goal
// is inserted at the front of the collection on success.
func (s *GoalStore) Create(ctx context.Context, d dto.GoalDraft) (models.Goal, error) {
	log := logger.FromContext(ctx)

	tempID := newTempID()
	s.setState(tempID, StateValidating)
	if fields := validate.Goal(d); len(fields) > 0 {
		s.setState(tempID, StateInvalid)
		return models.Goal{}, errs.NewValidationError(fields)
	}

	g := goalFromDraft(d)
	g.ID = tempID
	s.setState(tempID, StateSubmitting)

	persisted, err := s.remote.CreateGoal(ctx, g)
	if err != nil {
		s.setState(tempID, StateFailed)
		log.Error("goal create failed", "error", err)
		return models.Goal{}, err
	}

	s.mu.Lock()
	s.goals = append([]models.Goal{persisted}, s.goals...)
	delete(s.states, tempID)
	s.states[persisted.ID] = StatePersisted
	s.mu.Unlock()

	log.Info("goal created", "id", persisted.ID)
	return persisted, nil
}

// Update patches a goal and submits the result. Nil patch fields keep
// the goal's current values.
func (s *GoalStore) Update(ctx context.Context, id string, p dto.GoalPatch) (models.Goal, error) {
	current, ok := s.find(id)
	if !ok {
		return models.Goal{}, errs.NewNotFoundError("goal " + id + " not found")
	}
	d := draftFromGoal(current)
	applyGoalPatch(&d, p)
	return s.applyUpdate(ctx, id, d)
}

// BeginEdit loads a goal's fields into a draft. Only one draft may be
// open at a time.
func (s *GoalStore) BeginEdit(id string) (dto.GoalDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editID != "" {
		return dto.GoalDraft{}, errs.NewConflictError("another edit is already in progress")
	}
	g, ok := s.findLocked(id)
	if !ok {
		return dto.GoalDraft{}, errs.NewNotFoundError("goal " + id + " not found")
	}
	s.editID = id
	s.states[id] = StateDraft
	return draftFromGoal(g), nil
}

// SubmitEdit runs the open draft through the update path. The draft
// stays open on validation failure.
func (s *GoalStore) SubmitEdit(ctx context.Context, d dto.GoalDraft) (models.Goal, error) {
	s.mu.Lock()
	id := s.editID
	s.mu.Unlock()
	if id == "" {
		return models.Goal{}, errs.NewConflictError("no edit in progress")
	}

	updated, err := s.applyUpdate(ctx, id, d)
	if err != nil {
		return models.Goal{}, err
	}

	s.mu.Lock()
	s.editID = ""
	s.mu.Unlock()
	return updated, nil
}

// CancelEdit discards the open draft.
func (s *GoalStore) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editID == "" {
		return
	}
	s.states[s.editID] = StatePersisted
	s.editID = ""
}

// RequestDelete opens the delete confirmation for a goal.
func (s *GoalStore) RequestDelete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteStage == deleteConfirming {
		return errs.NewConflictError("a delete is already being confirmed")
	}
	if _, ok := s.findLocked(id); !ok {
		return errs.NewNotFoundError("goal " + id + " not found")
	}
	s.pendingDelete = id
	s.deleteStage = deleteOpen
	return nil
}

// CancelDelete closes the confirmation without touching the goal.
func (s *GoalStore) CancelDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteStage == deleteConfirming {
		return
	}
	s.pendingDelete = ""
	s.deleteStage = deleteClosed
}

// ConfirmDelete issues the remote delete for the goal whose
// confirmation is open. Without a prior RequestDelete it fails.
func (s *GoalStore) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	if s.deleteStage != deleteOpen {
		s.mu.Unlock()
		return errs.NewConflictError("no delete confirmation is open")
	}
	id := s.pendingDelete
	s.deleteStage = deleteConfirming
	s.mu.Unlock()

	log := logger.FromContext(ctx)
	if err := s.remote.DeleteGoal(ctx, id); err != nil {
		s.mu.Lock()
		s.deleteStage = deleteOpen
		s.mu.Unlock()
		log.Error("goal delete failed", "id", id, "error", err)
		return err
	}

	s.mu.Lock()
	s.removeLocked(id)
	delete(s.states, id)
	s.pendingDelete = ""
	s.deleteStage = deleteClosed
	s.mu.Unlock()

	log.Info("goal deleted", "id", id)
	return nil
}

func (s *GoalStore) applyUpdate(ctx context.Context, id string, d dto.GoalDraft) (models.Goal, error) {
	log := logger.FromContext(ctx)

	s.setState(id, StateValidating)
	if fields := validate.Goal(d); len(fields) > 0 {
		s.setState(id, StateInvalid)
		return models.Goal{}, errs.NewValidationError(fields)
	}

	g := goalFromDraft(d)
	g.ID = id
	s.setState(id, StateSubmitting)

	updated, err := s.remote.UpdateGoal(ctx, id, g)
	if err != nil {
		s.setState(id, StateFailed)
		log.Error("goal update failed", "id", id, "error", err)
		return models.Goal{}, err
	}

	s.mu.Lock()
	for i := range s.goals {
		if s.goals[i].ID == id {
			s.goals[i] = updated
			break
		}
	}
	s.states[updated.ID] = StatePersisted
	s.mu.Unlock()

	log.Info("goal updated", "id", id)
	return updated, nil
}

func (s *GoalStore) setState(id string, st RecordState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[id] = st
}

func (s *GoalStore) find(id string) (models.Goal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(id)
}

func (s *GoalStore) findLocked(id string) (models.Goal, bool) {
	for _, g := range s.goals {
		if g.ID == id {
			return g, true
		}
	}
	return models.Goal{}, false
}

func (s *GoalStore) removeLocked(id string) {
	for i := range s.goals {
		if s.goals[i].ID == id {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			return
		}
	}
}

// goalFromDraft assumes a validated draft. An empty current amount
// starts the goal at zero.
func goalFromDraft(d dto.GoalDraft) models.Goal {
	target, _ := decimal.NewFromString(strings.TrimSpace(d.TargetAmount))
	current := decimal.Zero
	if strings.TrimSpace(d.CurrentAmount) != "" {
		current, _ = decimal.NewFromString(strings.TrimSpace(d.CurrentAmount))
	}
	deadline, _ := validate.ParseDate(d.Deadline)
	return models.Goal{
		Name:          strings.TrimSpace(d.Name),
		TargetAmount:  target,
		CurrentAmount: current,
		Category:      d.Category,
		Deadline:      deadline,
	}
}

func draftFromGoal(g models.Goal) dto.GoalDraft {
	return dto.GoalDraft{
		Name:          g.Name,
		TargetAmount:  g.TargetAmount.String(),
		CurrentAmount: g.CurrentAmount.String(),
		Category:      g.Category,
		Deadline:      g.Deadline.Format("2006-01-02"),
	}
}

func applyGoalPatch(d *dto.GoalDraft, p dto.GoalPatch) {
	d.Name = helpers.ValueOr(p.Name, d.Name)
	d.TargetAmount = helpers.ValueOr(p.TargetAmount, d.TargetAmount)
	d.CurrentAmount = helpers.ValueOr(p.CurrentAmount, d.CurrentAmount)
	d.Category = helpers.ValueOr(p.Category, d.Category)
	d.Deadline = helpers.ValueOr(p.Deadline, d.Deadline)
}
