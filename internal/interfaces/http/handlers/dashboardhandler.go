package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/tally/internal/application/metrics/usecases"
	"github.com/orris-inc/tally/internal/shared/errors"
	"github.com/orris-inc/tally/internal/shared/logger"
	"github.com/orris-inc/tally/internal/shared/utils"
)

// RangeRequest selects the reporting window. startDate and endDate accept
// RFC3339 or YYYY-MM-DD and win over period.
type RangeRequest struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Period    string `form:"period" binding:"omitempty,oneof=7d 30d 90d 1y all"`
}

func (r RangeRequest) toQuery() usecases.RangeQuery {
	return usecases.RangeQuery{StartDate: r.StartDate, EndDate: r.EndDate, Period: r.Period}
}

type DashboardHandler struct {
	getDashboardUC getDashboardUseCase
	getMetricsUC   getMetricsUseCase
	getSnapshotUC  getSnapshotUseCase
	logger         logger.Interface
}

func NewDashboardHandler(
	getDashboardUC getDashboardUseCase,
	getMetricsUC getMetricsUseCase,
	getSnapshotUC getSnapshotUseCase,
	logger logger.Interface,
) *DashboardHandler {
	return &DashboardHandler{
		getDashboardUC: getDashboardUC,
		getMetricsUC:   getMetricsUC,
		getSnapshotUC:  getSnapshotUC,
		logger:         logger,
	}
}

// GetDashboard handles GET /api/dashboard
//
//	@Summary		Revenue dashboard
//	@Description	Summary, daily MRR and revenue charts, weekly churn chart and plan distribution
//	@Tags			dashboard
//	@Produce		json
//	@Security		Bearer
//	@Param			startDate	query		string										false	"Range start (RFC3339 or YYYY-MM-DD)"
//	@Param			endDate		query		string										false	"Range end (RFC3339 or YYYY-MM-DD)"
//	@Param			period		query		string										false	"7d, 30d, 90d or 1y"	default(30d)
//	@Success		200			{object}	utils.APIResponse{data=dto.DashboardDTO}	"Dashboard"
//	@Failure		400			{object}	utils.APIResponse							"Invalid range"
//	@Failure		401			{object}	utils.APIResponse							"Unauthorized"
//	@Failure		500			{object}	utils.APIResponse							"Metric computation failed"
//	@Router			/api/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req RangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid query parameters", err.Error()))
		return
	}

	result, err := h.getDashboardUC.Execute(c.Request.Context(), usecases.GetDashboardQuery{
		UserID:     userID,
		RangeQuery: req.toQuery(),
	})
	if err != nil {
		h.logger.Errorw("failed to get dashboard", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetMetrics handles GET /api/dashboard/metrics
//
//	@Summary		All metrics
//	@Description	MRR, churn rate, LTV, active users, revenue and refunds; period=all covers all time
//	@Tags			dashboard
//	@Produce		json
//	@Security		Bearer
//	@Param			startDate	query		string									false	"Range start"
//	@Param			endDate		query		string									false	"Range end"
//	@Param			period		query		string									false	"7d, 30d, 90d, 1y or all"	default(30d)
//	@Success		200			{object}	utils.APIResponse{data=dto.MetricsDTO}	"Metrics"
//	@Failure		400			{object}	utils.APIResponse						"Invalid range"
//	@Failure		401			{object}	utils.APIResponse						"Unauthorized"
//	@Failure		500			{object}	utils.APIResponse						"Metric computation failed"
//	@Router			/api/dashboard/metrics [get]
func (h *DashboardHandler) GetMetrics(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req RangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid query parameters", err.Error()))
		return
	}

	result, err := h.getMetricsUC.Execute(c.Request.Context(), usecases.GetMetricsQuery{
		UserID:     userID,
		RangeQuery: req.toQuery(),
	})
	if err != nil {
		h.logger.Errorw("failed to get metrics", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetSnapshot handles GET /api/dashboard/snapshot
//
//	@Summary		Last metrics snapshot
//	@Description	The all-time metrics persisted by the snapshot worker
//	@Tags			dashboard
//	@Produce		json
//	@Security		Bearer
//	@Success		200	{object}	utils.APIResponse{data=dto.SnapshotDTO}	"Snapshot"
//	@Failure		401	{object}	utils.APIResponse						"Unauthorized"
//	@Failure		404	{object}	utils.APIResponse						"No snapshot captured yet"
//	@Router			/api/dashboard/snapshot [get]
func (h *DashboardHandler) GetSnapshot(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, err := h.getSnapshotUC.Execute(c.Request.Context(), userID)
	if err != nil {
		h.logger.Warnw("failed to get metrics snapshot", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
