package refreshlog

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/sportanalytics/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 500
)

//go:embed schema.sql
var schemaSQL string

var ErrInvalidLimit = errors.New("invalid limit")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// EnsureSchema creates the refresh table and its index when missing.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("refresh log schema: %w", err)
	}
	return nil
}

func (r *Repo) Add(ctx context.Context, refresh Refresh) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.refreshlog.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("refresh.source", refresh.Source))

	if refresh.CreatedAt.IsZero() {
		refresh.CreatedAt = time.Now()
	}
	dropped := refresh.Dropped
	if dropped == nil {
		dropped = map[string]int{}
	}
	droppedJSON, err := json.Marshal(dropped)
	if err != nil {
		return -1, fmt.Errorf("marshal dropped counts: %w", err)
	}

	var id int
	err = r.db.QueryRow(
		ctx,
		`
			INSERT INTO dashboard_refresh
			    (source, fetched, kept, dropped, error, duration_ms, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`,
		refresh.Source,
		refresh.Fetched,
		refresh.Kept,
		droppedJSON,
		refresh.Error,
		refresh.DurationMs,
		refresh.CreatedAt,
	).Scan(&id)
	if err != nil {
		return -1, fmt.Errorf("add refresh [query row]: %w", err)
	}

	return id, nil
}

// List returns the latest refreshes, newest first.
func (r *Repo) List(ctx context.Context, limit int) (_ []Refresh, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.refreshlog.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("params.limit", limit))

	if limit <= 0 || limit > MaxListLimit {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
			    id, source, fetched, kept, dropped, error, duration_ms, created_at
			FROM dashboard_refresh
			ORDER BY created_at DESC, id DESC
			LIMIT $1
		`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list refreshes [query]: %w", err)
	}
	defer rows.Close()

	refreshes := []Refresh{}
	for rows.Next() {
		var (
			refresh     Refresh
			droppedJSON []byte
		)
		err := rows.Scan(
			&refresh.ID,
			&refresh.Source,
			&refresh.Fetched,
			&refresh.Kept,
			&droppedJSON,
			&refresh.Error,
			&refresh.DurationMs,
			&refresh.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list refreshes [rows scan]: %w", err)
		}
		if err := json.Unmarshal(droppedJSON, &refresh.Dropped); err != nil {
			return nil, fmt.Errorf("list refreshes [unmarshal dropped]: %w", err)
		}
		refreshes = append(refreshes, refresh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list refreshes [rows]: %w", err)
	}

	return refreshes, nil
}
