// Package apitest runs an in-process stand-in for the remote
// collaborator: just enough backend behavior to drive client and store
// tests without a network.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
)

type Category struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// Record mirrors the server's expense resource. Amount is kept raw so
// tests can seed malformed values.
type Record struct {
	ExpenseID           int64           `json:"expenseId,omitempty"`
	Amount              json.RawMessage `json:"amount"`
	Currency            string          `json:"currency"`
	Category            Category        `json:"category"`
	Description         string          `json:"description"`
	ExpenseDate         string          `json:"expenseDate"`
	TransactionType     string          `json:"transactionType"`
	IsRecurring         *bool           `json:"isRecurring"`
	RecurrenceFrequency string          `json:"recurrenceFrequency,omitempty"`
}

type Goal struct {
	GoalID        int64           `json:"goalId,omitempty"`
	GoalName      string          `json:"goalName"`
	TargetAmount  json.RawMessage `json:"targetAmount"`
	CurrentAmount json.RawMessage `json:"currentAmount"`
	Category      string          `json:"category"`
	Deadline      string          `json:"deadline"`
}

type ReportRow struct {
	Year         int     `json:"year"`
	PeriodValue  *int    `json:"periodValue"`
	CategoryName string  `json:"categoryName"`
	TotalAmount  float64 `json:"totalAmount"`
}

type Server struct {
	*httptest.Server

	mu      sync.Mutex
	nextID  int64
	records map[int64]Record
	goals   map[int64]Goal
	reports map[string][]ReportRow

	rejectMessage string

	// LastQuery holds the query values of the most recent request, for
	// asserting frequency and cancelRecurring parameters.
	LastQuery url.Values
}

func New() *Server {
	s := &Server{
		nextID:  100,
		records: map[int64]Record{},
		goals:   map[int64]Goal{},
		reports: map[string][]ReportRow{},
	}

	r := chi.NewRouter()
	r.Route("/records", func(r chi.Router) {
		r.Get("/", s.listRecords)
		r.Post("/", s.createRecord)
		r.Put("/{id}", s.updateRecord)
		r.Delete("/{id}", s.deleteRecord)
		r.Get("/reports/{period}", s.report)
	})
	r.Route("/goals", func(r chi.Router) {
		r.Get("/", s.listGoals)
		r.Post("/", s.createGoal)
		r.Put("/{id}", s.updateGoal)
		r.Delete("/{id}", s.deleteGoal)
	})

	s.Server = httptest.NewServer(r)
	return s
}

// RejectNext makes the next mutating call fail with a 400 carrying the
// given message.
func (s *Server) RejectNext(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectMessage = message
}

// Seed registers a record under the given id without going through the
// create path.
func (s *Server) Seed(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ExpenseID] = rec
}

func (s *Server) SeedGoal(g Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.GoalID] = g
}

func (s *Server) SeedReport(period string, rows []ReportRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[period] = rows
}

// RecordCount reports how many records the fake currently holds.
func (s *Server) RecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *Server) GoalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.goals)
}

func (s *Server) rejectIfRequested(w http.ResponseWriter) bool {
	if s.rejectMessage == "" {
		return false
	}
	msg := s.rejectMessage
	s.rejectMessage = ""
	writeJSON(w, http.StatusBadRequest, map[string]string{"message": msg})
	return true
}

func (s *Server) listRecords(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createRecord(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastQuery = r.URL.Query()
	if s.rejectIfRequested(w) {
		return
	}

	var rec Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed record"})
		return
	}

	s.nextID++
	rec.ExpenseID = s.nextID
	s.records[rec.ExpenseID] = rec
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) updateRecord(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastQuery = r.URL.Query()
	if s.rejectIfRequested(w) {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad id"})
		return
	}
	if _, ok := s.records[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "record not found"})
		return
	}

	var rec Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed record"})
		return
	}
	rec.ExpenseID = id
	s.records[id] = rec
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) deleteRecord(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastQuery = r.URL.Query()
	if s.rejectIfRequested(w) {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad id"})
		return
	}
	if _, ok := s.records[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "record not found"})
		return
	}

	delete(s.records, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Record deleted successfully"})
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastQuery = r.URL.Query()
	writeJSON(w, http.StatusOK, s.reports[chi.URLParam(r, "period")])
}

func (s *Server) listGoals(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Goal, 0, len(s.goals))
	for _, g := range s.goals {
		out = append(out, g)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createGoal(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rejectIfRequested(w) {
		return
	}

	var g Goal
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed goal"})
		return
	}

	s.nextID++
	g.GoalID = s.nextID
	s.goals[g.GoalID] = g
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) updateGoal(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rejectIfRequested(w) {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad id"})
		return
	}
	if _, ok := s.goals[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "goal not found"})
		return
	}

	var g Goal
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed goal"})
		return
	}
	g.GoalID = id
	s.goals[id] = g
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) deleteGoal(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rejectIfRequested(w) {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad id"})
		return
	}
	if _, ok := s.goals[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "goal not found"})
		return
	}

	delete(s.goals, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Goal deleted successfully"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
