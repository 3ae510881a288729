package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

type eventRepo struct {
	s *Store
}

type llmEventRow struct {
	LLMRequestEvent
	CreatedAt string `db:"created_at"`
}

var llmEventColumns = []string{
	"id", "provider", "model", "purpose", "learner_id", "input_tokens", "output_tokens", "latency_ms",
	"success", "error_message", "request_body", "response_body", "created_at",
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEvent) error {
	query, args := r.s.builder().Insert("llm_requests").
		Columns(llmEventColumns[1:]...).
		Values(data.Provider, data.Model, data.Purpose, data.LearnerID, data.InputTokens, data.OutputTokens, data.LatencyMs,
			data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody, formatTime(data.CreatedAt)).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	b := r.s.builder()
	sel := b.Select(llmEventColumns...).
		From(b.Table("llm_requests")).
		OrderBy(entsql.Desc("id"))

	var preds []*entsql.Predicate
	if opts.Purpose != "" {
		preds = append(preds, entsql.EQ("purpose", opts.Purpose))
	}
	if opts.LearnerID != "" {
		preds = append(preds, entsql.EQ("learner_id", opts.LearnerID))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("created_at", formatTime(opts.From)))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("created_at", formatTime(opts.To)))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	var rows []llmEventRow
	if err := r.s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}

	out := make([]LLMRequestEvent, len(rows))
	for i, row := range rows {
		ev := row.LLMRequestEvent
		t, err := parseTime(row.CreatedAt)
		if err != nil {
			return nil, err
		}
		ev.CreatedAt = t
		out[i] = ev
	}
	return out, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int64) (*LLMRequestEvent, error) {
	b := r.s.builder()
	query, args := b.Select(llmEventColumns...).
		From(b.Table("llm_requests")).
		Where(entsql.EQ("id", id)).
		Query()

	var row llmEventRow
	if err := r.s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("LLM event %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get LLM event: %w", err)
	}
	ev := row.LLMRequestEvent
	t, err := parseTime(row.CreatedAt)
	if err != nil {
		return nil, err
	}
	ev.CreatedAt = t
	return &ev, nil
}
