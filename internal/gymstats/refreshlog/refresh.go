package refreshlog

import (
	"context"
	"time"
)

// Refresh is the audit record of one dashboard render pass.
type Refresh struct {
	ID         int            `json:"id"`
	Source     string         `json:"source"`
	Fetched    int            `json:"fetched"`
	Kept       int            `json:"kept"`
	Dropped    map[string]int `json:"dropped"`
	Error      string         `json:"error,omitempty"`
	DurationMs int64          `json:"durationMs"`
	// set by the repo when zero
	CreatedAt time.Time `json:"createdAt"`
}

func (r Refresh) Duration() time.Duration {
	return time.Duration(r.DurationMs) * time.Millisecond
}

func (r Refresh) Failed() bool {
	return r.Error != ""
}

// NopRepo is used when no database is configured.
type NopRepo struct{}

func (NopRepo) Add(_ context.Context, _ Refresh) (int, error) {
	return 0, nil
}

func (NopRepo) List(_ context.Context, _ int) ([]Refresh, error) {
	return []Refresh{}, nil
}
