package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"pathguider/internal/errors"
	"pathguider/internal/service"
)

// AppealHandler handles student appeals and administrator decisions.
type AppealHandler struct {
	appealService service.AppealService
}

// NewAppealHandler creates a new appeal handler.
func NewAppealHandler(appealService service.AppealService) *AppealHandler {
	return &AppealHandler{appealService: appealService}
}

// SubmitAppealRequest files an appeal against a placement.
type SubmitAppealRequest struct {
	AppealText  string `json:"appeal_text" validate:"required"`
	PlacementID uint   `json:"placement_id" validate:"required"`
}

// UpdateAppealStatusRequest applies an administrator's decision. A rejection
// must carry a non-empty reason.
type UpdateAppealStatusRequest struct {
	Status          string `json:"status" validate:"required,oneof=pending approved rejected"`
	RejectionReason string `json:"rejection_reason"`
}

// Submit godoc
// @Summary File a placement appeal
// @Description Each student may appeal a limited number of times.
// @Tags appeals
// @Accept json
// @Produce json
// @Param request body SubmitAppealRequest true "Appeal"
// @Success 201 {object} model.Appeal
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /appeals [post]
func (h *AppealHandler) Submit(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	var req SubmitAppealRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	appeal, err := h.appealService.Submit(c.Request().Context(), claims.Email, req.AppealText, req.PlacementID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, appeal)
}

// List godoc
// @Summary List all appeals
// @Tags appeals
// @Produce json
// @Success 200 {array} model.Appeal
// @Security BearerAuth
// @Router /appeals [get]
func (h *AppealHandler) List(c echo.Context) error {
	appeals, err := h.appealService.List(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, appeals)
}

// MyAppeals godoc
// @Summary The calling student's appeals
// @Tags appeals
// @Produce json
// @Success 200 {array} model.Appeal
// @Security BearerAuth
// @Router /appeals/me [get]
func (h *AppealHandler) MyAppeals(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	appeals, err := h.appealService.ListForStudent(c.Request().Context(), claims.Email)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, appeals)
}

// UpdateStatus godoc
// @Summary Decide an appeal
// @Description Approved and rejected are terminal; rejecting requires a reason.
// @Tags appeals
// @Accept json
// @Produce json
// @Param id path int true "Appeal ID"
// @Param request body UpdateAppealStatusRequest true "Decision"
// @Success 200 {object} model.Appeal
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /appeals/{id}/status [put]
func (h *AppealHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req UpdateAppealStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	appeal, err := h.appealService.UpdateStatus(c.Request().Context(), uint(id), req.Status, req.RejectionReason)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, appeal)
}
