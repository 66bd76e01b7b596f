package dbcall_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tablesync/internal/adapters/out/postgres/dbcall"
	"tablesync/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestWithTimeout(t *testing.T) {
	ctx, cancel := dbcall.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, ok := ctx.Deadline()
	assert.True(t, ok)

	unbounded, cancel2 := dbcall.WithTimeout(context.Background(), 0)
	defer cancel2()
	_, ok = unbounded.Deadline()
	assert.False(t, ok)
}

func TestTranslate(t *testing.T) {
	require.NoError(t, dbcall.Translate("get", "order", "x", nil))

	err := dbcall.Translate("get", "order", "x", gorm.ErrRecordNotFound)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	cause := errors.New("connection reset")
	err = dbcall.Translate("list orders", "order", nil, cause)
	require.ErrorIs(t, err, errs.ErrRemoteStoreUnavailable)
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "list orders")

	again := dbcall.Translate("commit", "", nil, err)
	assert.Same(t, err, again)
}
