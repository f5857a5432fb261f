package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/tally/internal/application/metrics/usecases"
	"github.com/orris-inc/tally/internal/shared/logger"
	"github.com/orris-inc/tally/internal/shared/utils"
)

const invalidationSourceAdmin = "admin"

type invalidateCacheUseCase interface {
	Execute(ctx context.Context, cmd usecases.InvalidateCacheCommand) (int64, error)
}

type InvalidateCacheResponse struct {
	UserID      string `json:"user_id"`
	DeletedKeys int64  `json:"deleted_keys"`
}

// CacheHandler lets operators drop a user's cached metrics.
type CacheHandler struct {
	invalidateUC invalidateCacheUseCase
	logger       logger.Interface
}

func NewCacheHandler(invalidateUC invalidateCacheUseCase, log logger.Interface) *CacheHandler {
	return &CacheHandler{
		invalidateUC: invalidateUC,
		logger:       log,
	}
}

// InvalidateUserCache handles POST /api/admin/cache/:userId/invalidate
//
//	@Summary		Invalidate a user's cached metrics
//	@Tags			admin
//	@Produce		json
//	@Security		Bearer
//	@Param			userId	path		string										true	"User ID"
//	@Success		200		{object}	utils.APIResponse{data=InvalidateCacheResponse}	"Invalidated"
//	@Failure		403		{object}	utils.APIResponse							"Not an admin"
//	@Failure		500		{object}	utils.APIResponse							"Cache unavailable"
//	@Router			/api/admin/cache/{userId}/invalidate [post]
func (h *CacheHandler) InvalidateUserCache(c *gin.Context) {
	userID := c.Param("userId")

	deleted, err := h.invalidateUC.Execute(c.Request.Context(), usecases.InvalidateCacheCommand{
		UserID: userID,
		Source: invalidationSourceAdmin,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "metrics cache invalidated", InvalidateCacheResponse{
		UserID:      userID,
		DeletedKeys: deleted,
	})
}
