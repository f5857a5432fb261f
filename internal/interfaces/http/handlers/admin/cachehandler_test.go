package admin

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/tally/internal/application/metrics/usecases"
	"github.com/orris-inc/tally/internal/interfaces/http/handlers/testutil"
	"github.com/orris-inc/tally/internal/shared/errors"
	"github.com/orris-inc/tally/internal/shared/logger"
)

type mockInvalidateCacheUC struct {
	executeFunc func(ctx context.Context, cmd usecases.InvalidateCacheCommand) (int64, error)
}

func (m *mockInvalidateCacheUC) Execute(ctx context.Context, cmd usecases.InvalidateCacheCommand) (int64, error) {
	return m.executeFunc(ctx, cmd)
}

func TestCacheHandler_InvalidateUserCache(t *testing.T) {
	var got usecases.InvalidateCacheCommand
	uc := &mockInvalidateCacheUC{executeFunc: func(_ context.Context, cmd usecases.InvalidateCacheCommand) (int64, error) {
		got = cmd
		return 6, nil
	}}
	handler := NewCacheHandler(uc, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/admin/cache/user-7/invalidate", nil)
	testutil.SetURLParam(c, "userId", "user-7")

	handler.InvalidateUserCache(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, usecases.InvalidateCacheCommand{UserID: "user-7", Source: "admin"}, got)
	assert.Contains(t, w.Body.String(), `"deleted_keys":6`)
}

func TestCacheHandler_InvalidateUserCache_Failure(t *testing.T) {
	uc := &mockInvalidateCacheUC{executeFunc: func(context.Context, usecases.InvalidateCacheCommand) (int64, error) {
		return 0, errors.NewInternalError("failed to invalidate metrics cache")
	}}
	handler := NewCacheHandler(uc, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/admin/cache/user-7/invalidate", nil)
	testutil.SetURLParam(c, "userId", "user-7")

	handler.InvalidateUserCache(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
