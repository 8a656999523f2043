package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"candidate-boutique/internal/domain"
	"candidate-boutique/internal/usecase"
	"candidate-boutique/pkg/apperror"
	"candidate-boutique/pkg/lock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func candidateSheet(n int) string {
	var b strings.Builder
	b.WriteString("Nr,Imię i Nazwisko,Rola,Seniority\r\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "%d,Kandydat Numer %d,Go Developer,Senior\r\n", i, i)
	}
	return b.String()
}

func rowNumber(n int) interface{} {
	return mock.MatchedBy(func(c *domain.Candidate) bool {
		return c.SheetRowNumber != nil && *c.SheetRowNumber == n
	})
}

func TestSyncRun(t *testing.T) {
	t.Run("Should keep going when one row fails", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		repo.On("Upsert", mock.Anything, rowNumber(5)).Return(errors.New("value too long")).Once()
		repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

		uc := usecase.NewSyncUsecase(staticSource{text: candidateSheet(10)}, repo, lock.NewLocalLocker(), nil, usecase.SyncConfig{IntervalMinutes: 60})
		result, err := uc.Run(context.Background())

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.True(t, result.Warning)
		assert.Equal(t, 10, result.TotalRows)
		assert.Equal(t, 9, result.SuccessCount)
		assert.Equal(t, 1, result.ErrorCount)
		assert.Equal(t, "Synced 9 of 10 candidates, 1 failed", result.Message)
		repo.AssertNumberOfCalls(t, "Upsert", 10)
	})

	t.Run("Should upsert the same keys on a repeated run", func(t *testing.T) {
		var keys []int
		repo := new(MockCandidateRepo)
		repo.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			keys = append(keys, *args.Get(1).(*domain.Candidate).SheetRowNumber)
		}).Return(nil)

		uc := usecase.NewSyncUsecase(staticSource{text: candidateSheet(3)}, repo, lock.NewLocalLocker(), nil, usecase.SyncConfig{})
		first, err := uc.Run(context.Background())
		require.NoError(t, err)
		second, err := uc.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, []int{1, 2, 3, 1, 2, 3}, keys)
		assert.Equal(t, "Synced 3 candidates", first.Message)
		assert.Equal(t, first.SuccessCount, second.SuccessCount)
		assert.False(t, second.Warning)
	})

	t.Run("Should fall back to the sheet row when Nr is not numeric", func(t *testing.T) {
		var keys []int
		var names []string
		repo := new(MockCandidateRepo)
		repo.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			c := args.Get(1).(*domain.Candidate)
			keys = append(keys, *c.SheetRowNumber)
			names = append(names, c.FullName())
		}).Return(nil)

		text := "Imię i Nazwisko,Nr\nAnna Maria Nowak,x\n,\nJan,\n"
		uc := usecase.NewSyncUsecase(staticSource{text: text}, repo, lock.NewLocalLocker(), nil, usecase.SyncConfig{})
		result, err := uc.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []int{2, 4}, keys)
		assert.Equal(t, []string{"Anna Maria Nowak", "Jan"}, names)
		assert.Equal(t, 1, result.SkippedCount)
	})

	t.Run("Should fail without touching the store when fetch fails", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewSyncUsecase(staticSource{err: errors.New("timeout")}, repo, lock.NewLocalLocker(), nil, usecase.SyncConfig{})

		result, err := uc.Run(context.Background())

		require.Error(t, err)
		assert.False(t, result.Success)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("Should fail when the name column is missing", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewSyncUsecase(staticSource{text: "Nr,Rola\n1,Go\n"}, repo, lock.NewLocalLocker(), nil, usecase.SyncConfig{})

		result, err := uc.Run(context.Background())

		require.Error(t, err)
		assert.False(t, result.Success)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("Should fail when there are no data rows", func(t *testing.T) {
		uc := usecase.NewSyncUsecase(staticSource{text: "Nr,Imię i Nazwisko\n"}, new(MockCandidateRepo), lock.NewLocalLocker(), nil, usecase.SyncConfig{})

		result, err := uc.Run(context.Background())

		require.Error(t, err)
		assert.False(t, result.Success)
	})

	t.Run("Should refuse a concurrent run", func(t *testing.T) {
		locker := lock.NewLocalLocker()
		release, err := locker.Acquire(context.Background(), "sync:candidates", time.Minute)
		require.NoError(t, err)
		defer release()

		repo := new(MockCandidateRepo)
		uc := usecase.NewSyncUsecase(staticSource{text: candidateSheet(1)}, repo, locker, nil, usecase.SyncConfig{})

		result, err := uc.Run(context.Background())

		assert.Nil(t, result)
		assert.ErrorIs(t, err, domain.ErrSyncInProgress)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}

func TestSyncSchedule(t *testing.T) {
	t.Run("Should be due when nothing was synced", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		repo.On("LastSyncedAt", mock.Anything).Return(nil, nil)
		uc := usecase.NewSyncUsecase(staticSource{}, repo, lock.NewLocalLocker(), nil, usecase.SyncConfig{})
		assert.True(t, uc.ShouldSync(context.Background(), 60))
	})

	t.Run("Should not be due inside the interval", func(t *testing.T) {
		last := time.Now().Add(-10 * time.Minute)
		repo := new(MockCandidateRepo)
		repo.On("LastSyncedAt", mock.Anything).Return(&last, nil)
		uc := usecase.NewSyncUsecase(staticSource{}, repo, lock.NewLocalLocker(), nil, usecase.SyncConfig{})
		assert.False(t, uc.ShouldSync(context.Background(), 60))
		assert.True(t, uc.ShouldSync(context.Background(), 5))
	})

	t.Run("Should treat a read failure as due", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		repo.On("LastSyncedAt", mock.Anything).Return(nil, errors.New("db down"))
		uc := usecase.NewSyncUsecase(staticSource{}, repo, lock.NewLocalLocker(), nil, usecase.SyncConfig{})
		assert.True(t, uc.ShouldSync(context.Background(), 60))
	})

	t.Run("Should skip SyncIfDue when not due", func(t *testing.T) {
		last := time.Now()
		repo := new(MockCandidateRepo)
		repo.On("LastSyncedAt", mock.Anything).Return(&last, nil)
		uc := usecase.NewSyncUsecase(staticSource{err: errors.New("must not fetch")}, repo, lock.NewLocalLocker(), nil, usecase.SyncConfig{IntervalMinutes: 60})

		result, ran, err := uc.SyncIfDue(context.Background())

		assert.NoError(t, err)
		assert.False(t, ran)
		assert.Nil(t, result)
	})

	t.Run("Should report in-progress SyncIfDue as not run", func(t *testing.T) {
		locker := lock.NewLocalLocker()
		release, err := locker.Acquire(context.Background(), "sync:candidates", time.Minute)
		require.NoError(t, err)
		defer release()

		repo := new(MockCandidateRepo)
		repo.On("LastSyncedAt", mock.Anything).Return(nil, nil)
		uc := usecase.NewSyncUsecase(staticSource{text: candidateSheet(1)}, repo, locker, nil, usecase.SyncConfig{IntervalMinutes: 60})

		_, ran, err := uc.SyncIfDue(context.Background())

		assert.NoError(t, err)
		assert.False(t, ran)
	})

	t.Run("Should require admin for status", func(t *testing.T) {
		uc := usecase.NewSyncUsecase(staticSource{}, new(MockCandidateRepo), lock.NewLocalLocker(), nil, usecase.SyncConfig{})

		_, err := uc.Status(userCtx())

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 403, appErr.Code)
		assert.Equal(t, "Access denied", appErr.Message)
	})

	t.Run("Should report status for admin", func(t *testing.T) {
		last := time.Now().Add(-2 * time.Hour)
		repo := new(MockCandidateRepo)
		repo.On("LastSyncedAt", mock.Anything).Return(&last, nil)
		repo.On("Count", mock.Anything).Return(int64(42), nil)
		uc := usecase.NewSyncUsecase(staticSource{}, repo, lock.NewLocalLocker(), nil, usecase.SyncConfig{IntervalMinutes: 60})

		status, err := uc.Status(adminCtx())

		require.NoError(t, err)
		assert.Equal(t, int64(42), status.CandidateCount)
		assert.True(t, status.Due)
		assert.Equal(t, 60, status.IntervalMinutes)
	})
}
