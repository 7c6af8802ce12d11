package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"pathguider/internal/errors"
	"pathguider/internal/service"
)

// ProfileHandler handles the session bootstrap, role resolver and admin
// user screens.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// SetRoleRequest picks one of the three roles.
type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=administrator teacher student"`
}

// UpdateNameRequest edits a user's name fields.
type UpdateNameRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// Me godoc
// @Summary Current profile
// @Description Returns the caller's profile, provisioning one on first login.
// @Tags me
// @Produce json
// @Success 200 {object} model.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /me [get]
func (h *ProfileHandler) Me(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}

	profile, err := h.profileService.Me(c.Request().Context(), userID, claims.Email)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, profile)
}

// ResolveRole godoc
// @Summary Resolve the caller's role
// @Description Redirects to the matching dashboard when the role is set; offers the picker exactly once otherwise.
// @Tags me
// @Produce json
// @Success 200 {object} service.RoleResolution
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /me/role [get]
func (h *ProfileHandler) ResolveRole(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	resolution, err := h.profileService.ResolveRole(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, resolution)
}

// SetRole godoc
// @Summary Pick a role (once)
// @Tags me
// @Accept json
// @Produce json
// @Param request body SetRoleRequest true "Chosen role"
// @Success 200 {object} service.RoleResolution
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /me/role [post]
func (h *ProfileHandler) SetRole(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req SetRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resolution, err := h.profileService.SetRole(c.Request().Context(), userID, req.Role)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, resolution)
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param role query string false "Filter by role (student, teacher, administrator)"
// @Success 200 {array} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (h *ProfileHandler) ListUsers(c echo.Context) error {
	users, err := h.profileService.ListUsers(c.Request().Context(), c.QueryParam("role"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} model.Profile
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *ProfileHandler) GetUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	user, err := h.profileService.GetUser(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser godoc
// @Summary Edit a user's name
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body UpdateNameRequest true "New names"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *ProfileHandler) UpdateUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req UpdateNameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.profileService.UpdateUserName(c.Request().Context(), id, req.FirstName, req.LastName)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete a user
// @Description On success the client can drop the row from its table without a reload.
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *ProfileHandler) DeleteUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.profileService.DeleteUser(c.Request().Context(), id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user deleted"})
}
