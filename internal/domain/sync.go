package domain

import (
	"context"
	"errors"
	"time"
)

// ErrSyncInProgress is returned when another import holds the sync lock.
var ErrSyncInProgress = errors.New("sync already in progress")

type SyncResult struct {
	Success      bool      `json:"success"`
	Warning      bool      `json:"warning"`
	Message      string    `json:"message"`
	TotalRows    int       `json:"total_rows"`
	SuccessCount int       `json:"success_count"`
	ErrorCount   int       `json:"error_count"`
	SkippedCount int       `json:"skipped_count"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}

type SyncStatus struct {
	LastSyncedAt    *time.Time `json:"last_synced_at"`
	CandidateCount  int64      `json:"candidate_count"`
	Due             bool       `json:"due"`
	IntervalMinutes int        `json:"interval_minutes"`
}

// SheetSource returns the raw CSV export of the candidate sheet.
type SheetSource interface {
	Fetch(ctx context.Context) (string, error)
}

type SyncUsecase interface {
	Run(ctx context.Context) (*SyncResult, error)
	ShouldSync(ctx context.Context, intervalMinutes int) bool
	SyncIfDue(ctx context.Context) (*SyncResult, bool, error)
	Status(ctx context.Context) (*SyncStatus, error)
}
