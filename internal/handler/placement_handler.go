package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"pathguider/internal/errors"
	"pathguider/internal/service"
)

// PlacementHandler handles the placement table and teacher grade entry.
type PlacementHandler struct {
	placementService service.PlacementService
}

// NewPlacementHandler creates a new placement handler.
func NewPlacementHandler(placementService service.PlacementService) *PlacementHandler {
	return &PlacementHandler{placementService: placementService}
}

// ManualEntryRequest is one student's grades entered by a teacher. Grades
// are percentages.
type ManualEntryRequest struct {
	FirstName      string  `json:"first_name" validate:"required"`
	LastName       string  `json:"last_name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Stem           float64 `json:"stem" validate:"min=0,max=100"`
	SocialSciences float64 `json:"social_sciences" validate:"min=0,max=100"`
	Arts           float64 `json:"arts" validate:"min=0,max=100"`
}

// UpdatePlacementRequest edits a placement. Omitted grades are unchanged.
type UpdatePlacementRequest struct {
	Pathway        string   `json:"pathway" validate:"omitempty,oneof=stem social_sciences arts"`
	Stem           *float64 `json:"stem" validate:"omitempty,min=0,max=100"`
	SocialSciences *float64 `json:"social_sciences" validate:"omitempty,min=0,max=100"`
	Arts           *float64 `json:"arts" validate:"omitempty,min=0,max=100"`
}

// List godoc
// @Summary List all placements
// @Tags placements
// @Produce json
// @Success 200 {array} model.Placement
// @Security BearerAuth
// @Router /placements [get]
func (h *PlacementHandler) List(c echo.Context) error {
	placements, err := h.placementService.List(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, placements)
}

// MyPlacement godoc
// @Summary The calling student's placement
// @Tags placements
// @Produce json
// @Success 200 {object} model.Placement
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /placements/me [get]
func (h *PlacementHandler) MyPlacement(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	placement, err := h.placementService.ForStudent(c.Request().Context(), claims.Email)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, placement)
}

// ManualEntry godoc
// @Summary Enter one student's grades manually
// @Description Derives the pathway from the highest score and upserts the row by student email.
// @Tags placements
// @Accept json
// @Produce json
// @Param request body ManualEntryRequest true "Student grades"
// @Success 201 {object} model.Placement
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /placements [post]
func (h *PlacementHandler) ManualEntry(c echo.Context) error {
	var req ManualEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_FAILED",
		})
	}

	placement, err := h.placementService.ManualEntry(c.Request().Context(), service.ManualEntryInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Stem:           req.Stem,
		SocialSciences: req.SocialSciences,
		Arts:           req.Arts,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, placement)
}

// Update godoc
// @Summary Edit a placement
// @Tags placements
// @Accept json
// @Produce json
// @Param id path int true "Placement ID"
// @Param request body UpdatePlacementRequest true "Fields to change"
// @Success 200 {object} model.Placement
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /placements/{id} [put]
func (h *PlacementHandler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req UpdatePlacementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	placement, err := h.placementService.Update(c.Request().Context(), uint(id), service.PlacementUpdateInput{
		Pathway:        req.Pathway,
		Stem:           req.Stem,
		SocialSciences: req.SocialSciences,
		Arts:           req.Arts,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, placement)
}

// Delete godoc
// @Summary Delete a placement
// @Tags placements
// @Produce json
// @Param id path int true "Placement ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /placements/{id} [delete]
func (h *PlacementHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.placementService.Delete(c.Request().Context(), uint(id)); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "placement deleted"})
}

// ListUploads godoc
// @Summary List grade submission records
// @Tags placements
// @Produce json
// @Success 200 {array} model.UploadedFile
// @Security BearerAuth
// @Router /uploads [get]
func (h *PlacementHandler) ListUploads(c echo.Context) error {
	files, err := h.placementService.ListUploads(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, files)
}
