package commands_test

import (
	"testing"

	"tablesync/internal/core/application/usecases/commands"
	"tablesync/internal/core/domain/model/notification"
	"tablesync/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCallWaitressCommand(t *testing.T) {
	_, err := commands.NewCallWaitressCommand(" ", "Audrey", "")

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestCallWaitressCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()

	t.Run("should call the named waitress", func(t *testing.T) {
		store := &memoryStore{}
		h := commands.NewCallWaitressCommandHandler(store)
		cmd, err := commands.NewCallWaitressCommand("12", "Bea", "")
		require.NoError(t, err)

		calls, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		require.Len(t, calls, 1)
		assert.Equal(t, "Bea", calls[0].TargetWaitress())
		assert.Equal(t, notification.KitchenCall, calls[0].Type())
	})

	t.Run("should call every waitress owning an order", func(t *testing.T) {
		store, _, _ := seed(t)
		h := commands.NewCallWaitressCommandHandler(store)
		cmd, err := commands.NewCallWaitressCommand("12", "", "")
		require.NoError(t, err)

		calls, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		require.Len(t, calls, 1)
		assert.Equal(t, "Audrey", calls[0].TargetWaitress())
		assert.Len(t, store.notifications, 1)
	})
}

func TestResetSystemCommandHandler_ClearsCalls(t *testing.T) {
	store, _, _ := seed(t)
	call, err := commands.NewCallWaitressCommand("12", "Audrey", "")
	require.NoError(t, err)
	callHandler := commands.NewCallWaitressCommandHandler(store)
	_, err = callHandler.Handle(t.Context(), call)
	require.NoError(t, err)
	h := commands.NewResetSystemCommandHandler(store, discard)

	result, err := h.Handle(t.Context())

	require.NoError(t, err)
	assert.EqualValues(t, 2, result.Orders)
	assert.EqualValues(t, 1, result.Notifications)
	assert.Empty(t, store.orders)
	assert.Empty(t, store.notifications)
}
