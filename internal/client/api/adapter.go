// Package api is the adapter for the remote collaborator persisting
// records and goals. Callers see internal model shapes and the error
// taxonomy; HTTP status handling and field-name translation stay in
// here.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/homeledger/homeledger/internal/config"
	"github.com/homeledger/homeledger/internal/dto"
	"github.com/homeledger/homeledger/internal/errs"
	"github.com/homeledger/homeledger/internal/models"
)

type Adapter struct {
	base    string
	session config.Session
	client  *http.Client
}

func NewAdapter(baseURL string, session config.Session, client *http.Client) *Adapter {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Adapter{
		base:    strings.TrimRight(baseURL, "/"),
		session: session,
		client:  client,
	}
}

// CloseIdleConnections releases pooled connections on shutdown.
func (a *Adapter) CloseIdleConnections() {
	a.client.CloseIdleConnections()
}

func (a *Adapter) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(b)
	}

	target := a.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return errs.NewNetworkError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.session.Token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return errs.NewNetworkError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errs.NewNotFoundError("record not found on the server")
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return errs.NewServerRejection(resp.StatusCode, rejectionMessage(resp.Body))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errs.NewNetworkError(err)
		}
	}
	return nil
}

// rejectionMessage pulls a human-readable message out of an error
// payload when the server provides one.
func rejectionMessage(r io.Reader) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

func recurrenceQuery(tx models.Transaction) url.Values {
	if !tx.IsRecurring || tx.Frequency == "" {
		return nil
	}
	q := url.Values{}
	q.Set("frequency", string(tx.Frequency))
	return q
}

// ---- Records ----

func (a *Adapter) ListRecords(ctx context.Context) ([]models.Transaction, error) {
	var wire []wireRecord
	if err := a.do(ctx, http.MethodGet, "/records", nil, nil, &wire); err != nil {
		return nil, err
	}

	txs := make([]models.Transaction, 0, len(wire))
	for _, w := range wire {
		txs = append(txs, toTransaction(w))
	}
	return txs, nil
}

func (a *Adapter) CreateRecord(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	var created wireRecord
	err := a.do(ctx, http.MethodPost, "/records", recurrenceQuery(tx), fromTransaction(tx), &created)
	if err != nil {
		return models.Transaction{}, err
	}
	return toTransaction(created), nil
}

func (a *Adapter) UpdateRecord(ctx context.Context, id string, tx models.Transaction) (models.Transaction, error) {
	var updated wireRecord
	err := a.do(ctx, http.MethodPut, "/records/"+url.PathEscape(id), recurrenceQuery(tx), fromTransaction(tx), &updated)
	if err != nil {
		return models.Transaction{}, err
	}
	return toTransaction(updated), nil
}

func (a *Adapter) DeleteRecord(ctx context.Context, id string, cancelRecurring bool) error {
	q := url.Values{}
	q.Set("cancelRecurring", strconv.FormatBool(cancelRecurring))
	return a.do(ctx, http.MethodDelete, "/records/"+url.PathEscape(id), q, nil, nil)
}

// ---- Goals ----

func (a *Adapter) ListGoals(ctx context.Context) ([]models.Goal, error) {
	var wire []wireGoal
	if err := a.do(ctx, http.MethodGet, "/goals", nil, nil, &wire); err != nil {
		return nil, err
	}

	goals := make([]models.Goal, 0, len(wire))
	for _, w := range wire {
		goals = append(goals, toGoal(w))
	}
	return goals, nil
}

func (a *Adapter) CreateGoal(ctx context.Context, g models.Goal) (models.Goal, error) {
	var created wireGoal
	if err := a.do(ctx, http.MethodPost, "/goals", nil, fromGoal(g), &created); err != nil {
		return models.Goal{}, err
	}
	return toGoal(created), nil
}

func (a *Adapter) UpdateGoal(ctx context.Context, id string, g models.Goal) (models.Goal, error) {
	var updated wireGoal
	err := a.do(ctx, http.MethodPut, "/goals/"+url.PathEscape(id), nil, fromGoal(g), &updated)
	if err != nil {
		return models.Goal{}, err
	}
	return toGoal(updated), nil
}

func (a *Adapter) DeleteGoal(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/goals/"+url.PathEscape(id), nil, nil, nil)
}

// ---- Reports ----

func (a *Adapter) reports(ctx context.Context, period string, q url.Values) ([]dto.ReportRow, error) {
	var wire []wireReportRow
	if err := a.do(ctx, http.MethodGet, "/records/reports/"+period, q, nil, &wire); err != nil {
		return nil, err
	}

	rows := make([]dto.ReportRow, 0, len(wire))
	for _, w := range wire {
		rows = append(rows, toReportRow(w))
	}
	return rows, nil
}

func (a *Adapter) WeeklyReport(ctx context.Context, year, week int) ([]dto.ReportRow, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))
	q.Set("week", strconv.Itoa(week))
	return a.reports(ctx, "weekly", q)
}

func (a *Adapter) MonthlyReport(ctx context.Context, year, month int) ([]dto.ReportRow, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))
	q.Set("month", strconv.Itoa(month))
	return a.reports(ctx, "monthly", q)
}

func (a *Adapter) YearlyReport(ctx context.Context, year int) ([]dto.ReportRow, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))
	return a.reports(ctx, "yearly", q)
}
