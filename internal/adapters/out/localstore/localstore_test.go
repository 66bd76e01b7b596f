package localstore_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"tablesync/internal/adapters/out/localstore"
	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/order"
	"tablesync/internal/core/domain/model/printjob"
	"tablesync/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var base = time.Date(2025, 3, 14, 19, 30, 0, 0, time.UTC)

func openStore(t *testing.T) (*gorm.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "device.db")
	db, err := localstore.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db, path
}

func newJob(t *testing.T, table string, kind kernel.Kind, at time.Time) *printjob.PrintJob {
	t.Helper()
	line, err := order.NewLineItem("", kind, "Item", decimal.RequireFromString("4.20"), 3,
		order.LineItemOptions{Comment: "extra lemon"})
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewOrderID(table, kind, at), order.Table{Name: table}, "Audrey",
		[]order.LineItem{line}, at)
	require.NoError(t, err)
	job, err := printjob.New(o, "device-a", at)
	require.NoError(t, err)
	return job
}

func TestPrintQueue_AppendIsIdempotentPerOrder(t *testing.T) {
	db, _ := openStore(t)
	queue := localstore.NewPrintQueue(db)
	ctx := t.Context()
	job := newJob(t, "12", kernel.Meals, base)

	stored, created, err := queue.Append(ctx, job)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, job.ID().IsEqual(stored.ID()))

	again := newJob(t, "12", kernel.Meals, base)
	stored, created, err = queue.Append(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, job.ID().IsEqual(stored.ID()), "the first job for the order wins")

	all, err := queue.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	snap := all[0].Snapshot()
	assert.Equal(t, job.OrderID(), snap.OrderID)
	assert.True(t, job.Snapshot().Total().Equal(snap.Total()))
	require.Len(t, snap.LineItems, 1)
	assert.Equal(t, "extra lemon", snap.LineItems[0].Comment)
}

func TestPrintQueue_MarkProcessedIsConditional(t *testing.T) {
	db, _ := openStore(t)
	queue := localstore.NewPrintQueue(db)
	ctx := t.Context()
	job := newJob(t, "12", kernel.Drinks, base)
	_, _, err := queue.Append(ctx, job)
	require.NoError(t, err)

	require.NoError(t, job.MarkProcessed(base.Add(time.Minute)))
	changed, err := queue.MarkProcessed(ctx, job)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = queue.MarkProcessed(ctx, job)
	require.NoError(t, err)
	assert.False(t, changed)

	stored, err := queue.Get(ctx, job.ID())
	require.NoError(t, err)
	assert.True(t, stored.IsProcessed())
	require.NotNil(t, stored.ProcessedAt())
	assert.True(t, base.Add(time.Minute).Equal(*stored.ProcessedAt()))
	assert.Equal(t, 1, stored.Attempts())

	pending, err := queue.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPrintQueue_ErrorsKeepJobOutOfPending(t *testing.T) {
	db, _ := openStore(t)
	queue := localstore.NewPrintQueue(db)
	ctx := t.Context()
	failing := newJob(t, "12", kernel.Meals, base)
	healthy := newJob(t, "4", kernel.Meals, base.Add(time.Second))
	for _, j := range []*printjob.PrintJob{failing, healthy} {
		_, _, err := queue.Append(ctx, j)
		require.NoError(t, err)
	}

	rec := failing.RecordFailure(errors.New("paper jam"), base.Add(time.Minute))
	require.NoError(t, queue.AppendError(ctx, failing, rec))

	pending, err := queue.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.True(t, healthy.ID().IsEqual(pending[0].ID()))

	failed, err := queue.ListFailed(ctx)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, 1, failed[0].Attempts())
	require.Len(t, failed[0].Errors(), 1)
	assert.Equal(t, "paper jam", failed[0].Errors()[0].Message)
	assert.False(t, failed[0].IsProcessed())
}

func TestPrintQueue_ReprintIsExemptFromOrderUniqueness(t *testing.T) {
	db, _ := openStore(t)
	queue := localstore.NewPrintQueue(db)
	ctx := t.Context()
	job := newJob(t, "12", kernel.Meals, base)
	_, _, err := queue.Append(ctx, job)
	require.NoError(t, err)
	require.NoError(t, job.MarkProcessed(base))
	_, err = queue.MarkProcessed(ctx, job)
	require.NoError(t, err)

	for i := 1; i <= 2; i++ {
		reprint, err := printjob.NewReprint(job, "device-a", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		_, created, err := queue.Append(ctx, reprint)
		require.NoError(t, err)
		assert.True(t, created)
	}

	pending, err := queue.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.NotNil(t, pending[0].ReprintOf())
	assert.True(t, job.ID().IsEqual(*pending[0].ReprintOf()))
	assert.Equal(t, job.OrderID(), pending[1].OrderID())
}

func TestPrintQueue_ClearAndGetMissing(t *testing.T) {
	db, _ := openStore(t)
	queue := localstore.NewPrintQueue(db)
	ctx := t.Context()
	job := newJob(t, "12", kernel.Meals, base)
	_, _, err := queue.Append(ctx, job)
	require.NoError(t, err)
	require.NoError(t, queue.AppendError(ctx, job, job.RecordFailure(errors.New("offline"), base)))

	removed, err := queue.Clear(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	_, err = queue.Get(ctx, job.ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	_, created, err := queue.Append(ctx, newJob(t, "12", kernel.Meals, base))
	require.NoError(t, err)
	assert.True(t, created, "a cleared order can be queued again")
}

func TestPrintQueue_SurvivesReopen(t *testing.T) {
	db, path := openStore(t)
	ctx := t.Context()
	job := newJob(t, "12", kernel.Meals, base)
	_, _, err := localstore.NewPrintQueue(db).Append(ctx, job)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	reopened, err := localstore.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := reopened.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	pending, err := localstore.NewPrintQueue(reopened).ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.True(t, job.ID().IsEqual(pending[0].ID()))
}

func TestSettings(t *testing.T) {
	db, _ := openStore(t)
	settings := localstore.NewSettings(db)
	ctx := t.Context()

	t.Run("defaults", func(t *testing.T) {
		printing, err := settings.IsPrintingDevice(ctx)
		require.NoError(t, err)
		assert.False(t, printing)

		policy, err := settings.AutoPrintPolicy(ctx)
		require.NoError(t, err)
		assert.Equal(t, printjob.DefaultPolicy, policy)

		_, ok, err := settings.FeedCursor(ctx)
		require.NoError(t, err)
		assert.False(t, ok)

		options, err := settings.CookingOptions(ctx)
		require.NoError(t, err)
		assert.Equal(t, localstore.DefaultCookingOptions, options)
	})

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, settings.SetPrintingDevice(ctx, true))
		require.NoError(t, settings.SetAutoPrintPolicy(ctx, printjob.PrintMealsOnly))
		require.NoError(t, settings.SetFeedCursor(ctx, 41))
		require.NoError(t, settings.SetFeedCursor(ctx, 42))
		require.NoError(t, settings.SetCookingOptions(ctx, []string{"blue", "rare"}))

		printing, err := settings.IsPrintingDevice(ctx)
		require.NoError(t, err)
		assert.True(t, printing)

		policy, err := settings.AutoPrintPolicy(ctx)
		require.NoError(t, err)
		assert.Equal(t, printjob.PrintMealsOnly, policy)

		cursor, ok, err := settings.FeedCursor(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.EqualValues(t, 42, cursor)

		options, err := settings.CookingOptions(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"blue", "rare"}, options)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		require.ErrorIs(t, settings.SetAutoPrintPolicy(ctx, printjob.Policy("everything")), errs.ErrValueIsInvalid)
		require.ErrorIs(t, settings.SetCookingOptions(ctx, nil), errs.ErrValueIsRequired)
	})
}

func TestSettings_DeviceIDSurvivesReopen(t *testing.T) {
	db, path := openStore(t)
	ctx := t.Context()

	first, err := localstore.NewSettings(db).DeviceID(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, first)
	again, err := localstore.NewSettings(db).DeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	reopened, err := localstore.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := reopened.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	afterRestart, err := localstore.NewSettings(reopened).DeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, afterRestart)
}
