package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/lock"
	"candidate-boutique/pkg/logger"
	"candidate-boutique/pkg/metrics"
	"candidate-boutique/pkg/sheet"
)

const syncLockName = "sync:candidates"

type SyncConfig struct {
	IntervalMinutes int
	// LockTTL bounds how long a crashed run can block the next one.
	LockTTL time.Duration
}

type syncUsecase struct {
	source  domain.SheetSource
	repo    domain.CandidateRepository
	locker  lock.Locker
	metrics *metrics.Sync
	cfg     SyncConfig
}

func NewSyncUsecase(source domain.SheetSource, repo domain.CandidateRepository, locker lock.Locker, m *metrics.Sync, cfg SyncConfig) domain.SyncUsecase {
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 10 * time.Minute
	}
	if m == nil {
		m = metrics.NewSync(nil)
	}
	return &syncUsecase{source: source, repo: repo, locker: locker, metrics: m, cfg: cfg}
}

// Run imports the sheet. Only one run proceeds at a time; others get
// ErrSyncInProgress.
func (u *syncUsecase) Run(ctx context.Context) (*domain.SyncResult, error) {
	release, err := u.locker.Acquire(ctx, syncLockName, u.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			u.metrics.Runs.WithLabelValues(metrics.OutcomeConflict).Inc()
			return nil, domain.ErrSyncInProgress
		}
		return nil, fmt.Errorf("acquire sync lock: %w", err)
	}
	defer release()

	return u.run(ctx)
}

func (u *syncUsecase) run(ctx context.Context) (*domain.SyncResult, error) {
	start := time.Now().UTC()
	result := &domain.SyncResult{StartedAt: start}
	defer func() {
		result.FinishedAt = time.Now().UTC()
		u.metrics.Duration.Observe(result.FinishedAt.Sub(start).Seconds())
	}()

	text, err := u.source.Fetch(ctx)
	if err != nil {
		return u.fail(result, "Failed to fetch candidate sheet", err)
	}

	rows := sheet.Parse(text)
	if len(rows) == 0 {
		return u.fail(result, "Candidate sheet is empty", sheet.ErrEmptySheet)
	}

	cols, err := sheet.ResolveColumns(rows[0])
	if err != nil {
		return u.fail(result, err.Error(), err)
	}

	data := rows[1:]
	if len(data) == 0 {
		return u.fail(result, "Candidate sheet has no data rows", sheet.ErrEmptySheet)
	}
	result.TotalRows = len(data)

	for i, row := range data {
		if err := ctx.Err(); err != nil {
			return u.fail(result, "Sync cancelled", err)
		}

		rec, ok := sheet.NormalizeRow(row, cols, i, start)
		if !ok {
			result.SkippedCount++
			u.metrics.Rows.WithLabelValues(metrics.RowSkipped).Inc()
			continue
		}

		c := candidateFromRecord(rec)
		if err := u.repo.Upsert(ctx, &c); err != nil {
			result.ErrorCount++
			u.metrics.Rows.WithLabelValues(metrics.RowFailed).Inc()
			logger.Log.Warn("Failed to upsert candidate row",
				"sheet_row_number", rec.SheetRowNumber,
				"error", err,
			)
			continue
		}
		result.SuccessCount++
		u.metrics.Rows.WithLabelValues(metrics.RowUpserted).Inc()
	}

	result.Success = true
	if result.ErrorCount > 0 {
		result.Warning = true
		result.Message = fmt.Sprintf("Synced %d of %d candidates, %d failed",
			result.SuccessCount, result.SuccessCount+result.ErrorCount, result.ErrorCount)
		u.metrics.Runs.WithLabelValues(metrics.OutcomeWarning).Inc()
	} else {
		result.Message = fmt.Sprintf("Synced %d candidates", result.SuccessCount)
		u.metrics.Runs.WithLabelValues(metrics.OutcomeSuccess).Inc()
	}

	logger.Log.Info("Candidate sync finished",
		"total_rows", result.TotalRows,
		"success", result.SuccessCount,
		"errors", result.ErrorCount,
		"skipped", result.SkippedCount,
	)
	return result, nil
}

func (u *syncUsecase) fail(result *domain.SyncResult, message string, err error) (*domain.SyncResult, error) {
	result.Success = false
	result.Message = message
	u.metrics.Runs.WithLabelValues(metrics.OutcomeFailure).Inc()
	logger.Log.Error("Candidate sync failed", "message", message, "error", err)
	return result, fmt.Errorf("%s: %w", message, err)
}

// ShouldSync reports whether intervalMinutes have passed since the newest
// sync stamp. Read failures count as due.
func (u *syncUsecase) ShouldSync(ctx context.Context, intervalMinutes int) bool {
	last, err := u.repo.LastSyncedAt(ctx)
	if err != nil {
		logger.Log.Warn("Failed to read last sync time, assuming sync is due", "error", err)
		return true
	}
	if last == nil {
		return true
	}
	return time.Since(*last) >= time.Duration(intervalMinutes)*time.Minute
}

// SyncIfDue runs an import when the interval has elapsed. ran is false when
// the sync was not due or another run already holds the lock.
func (u *syncUsecase) SyncIfDue(ctx context.Context) (*domain.SyncResult, bool, error) {
	if !u.ShouldSync(ctx, u.cfg.IntervalMinutes) {
		return nil, false, nil
	}
	result, err := u.Run(ctx)
	if errors.Is(err, domain.ErrSyncInProgress) {
		return nil, false, nil
	}
	return result, true, err
}

func (u *syncUsecase) Status(ctx context.Context) (*domain.SyncStatus, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	last, err := u.repo.LastSyncedAt(ctx)
	if err != nil {
		return nil, fmt.Errorf("read last sync: %w", err)
	}
	count, err := u.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count candidates: %w", err)
	}

	due := last == nil || time.Since(*last) >= time.Duration(u.cfg.IntervalMinutes)*time.Minute
	return &domain.SyncStatus{
		LastSyncedAt:    last,
		CandidateCount:  count,
		Due:             due,
		IntervalMinutes: u.cfg.IntervalMinutes,
	}, nil
}

func candidateFromRecord(rec sheet.Record) domain.Candidate {
	rowNumber := rec.SheetRowNumber
	synced := rec.LastSyncedAt
	return domain.Candidate{
		SheetRowNumber: &rowNumber,
		Nr:             rec.Nr,
		FirstName:      rec.FirstName,
		LastName:       rec.LastName,
		Role:           rec.Role,
		Seniority:      rec.Seniority,
		Rate:           rec.Rate,
		Skills:         rec.Skills,
		Languages:      rec.Languages,
		Availability:   rec.Availability,
		Guardian:       rec.Guardian,
		GuardianEmail:  rec.GuardianEmail,
		CV:             rec.CV,
		LastSyncedAt:   &synced,
	}
}
