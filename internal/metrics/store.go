package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PlanGeneration records the outcome of one plan generation attempt.
type PlanGeneration struct {
	UserID     string
	Outcome    string // "ok", "insufficient_candidates", "no_required_cuisine", "error"
	DurationMS int64
	Timestamp  time.Time
}

// LLMExecution records metadata for a single LLM call made during ingestion
// or clipping.
type LLMExecution struct {
	AgentName        string
	Model            string
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
	Timestamp        time.Time
}

// Store handles persistence of operational metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// RecordGeneration saves a plan generation outcome.
func (s *Store) RecordGeneration(ctx context.Context, g PlanGeneration) error {
	ts := g.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO plan_generations (user_id, outcome, duration_ms, timestamp)
		VALUES (?, ?, ?, ?)`,
		g.UserID, g.Outcome, g.DurationMS, ts)
	if err != nil {
		return fmt.Errorf("failed to record plan generation: %w", err)
	}
	return nil
}

// RecordLLM saves an LLM execution metric.
func (s *Store) RecordLLM(ctx context.Context, m LLMExecution) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO llm_executions (agent_name, model, prompt_tokens, completion_tokens, latency_ms, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.AgentName, m.Model, m.PromptTokens, m.CompletionTokens, m.LatencyMS, ts)
	if err != nil {
		return fmt.Errorf("failed to record llm execution: %w", err)
	}
	return nil
}

// DailyGenerations represents generation counts for a single day.
type DailyGenerations struct {
	Date      string
	Succeeded int
	Failed    int
}

// GetDailyGenerations retrieves generation counts for the last N days.
func (s *Store) GetDailyGenerations(ctx context.Context, days int) ([]DailyGenerations, error) {
	since := time.Now().AddDate(0, 0, -days).UTC()
	rows, err := s.db.QueryContext(ctx, `
		SELECT date(timestamp) AS day,
		       SUM(CASE WHEN outcome = 'ok' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN outcome != 'ok' THEN 1 ELSE 0 END)
		FROM plan_generations
		WHERE timestamp >= ?
		GROUP BY day
		ORDER BY day`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily generations: %w", err)
	}
	defer rows.Close()

	var results []DailyGenerations
	for rows.Next() {
		var d DailyGenerations
		if err := rows.Scan(&d.Date, &d.Succeeded, &d.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan daily generations row: %w", err)
		}
		results = append(results, d)
	}
	return results, rows.Err()
}

// Cleanup removes metric records older than the specified number of days and
// returns the number of rows removed.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().AddDate(0, 0, -olderThanDays).UTC()

	var total int64
	for _, table := range []string{"plan_generations", "llm_executions"} {
		res, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE timestamp < ?`, table), threshold)
		if err != nil {
			return total, fmt.Errorf("failed to clean up %s: %w", table, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return total, err
		}
		total += affected
	}
	return total, nil
}
