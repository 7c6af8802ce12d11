package router

import (
	stderrors "errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"pathguider/internal/auth"
	"pathguider/internal/errors"
	"pathguider/internal/handler"
	"pathguider/internal/model"
	"pathguider/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	profiles service.ProfileService,
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	placementHandler *handler.PlacementHandler,
	appealHandler *handler.AppealHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes: the enrollment flow up to a full session
	api.POST("/auth/register", authHandler.Register)
	api.GET("/auth/verify-email", authHandler.VerifyEmail)
	api.POST("/auth/resend-verification", authHandler.ResendVerification)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/reset-password", authHandler.ResetPassword)
	// completes a pending sign-in, authenticated by the pending token itself
	api.POST("/auth/totp/verify", authHandler.VerifyTotp)

	// Secured routes (require a valid access token)
	secured := api.Group("", AccessTokenMiddleware(jwtService, tokenStore))

	secured.GET("/me", profileHandler.Me)
	secured.GET("/me/role", profileHandler.ResolveRole)
	secured.POST("/me/role", profileHandler.SetRole)
	secured.POST("/auth/totp/enroll", authHandler.EnrollTotp)
	secured.POST("/auth/totp/activate", authHandler.ActivateTotp)

	admin := secured.Group("", RequireRoles(profiles, model.RoleAdministrator))
	admin.GET("/users", profileHandler.ListUsers)
	admin.GET("/users/:id", profileHandler.GetUser)
	admin.PUT("/users/:id", profileHandler.UpdateUser)
	admin.DELETE("/users/:id", profileHandler.DeleteUser)
	admin.DELETE("/placements/:id", placementHandler.Delete)
	admin.GET("/appeals", appealHandler.List)
	admin.PUT("/appeals/:id/status", appealHandler.UpdateStatus)
	admin.GET("/uploads", placementHandler.ListUploads)

	staff := secured.Group("", RequireRoles(profiles, model.RoleTeacher, model.RoleAdministrator))
	staff.GET("/placements", placementHandler.List)
	staff.POST("/placements", placementHandler.ManualEntry)
	staff.PUT("/placements/:id", placementHandler.Update)

	student := secured.Group("", RequireRoles(profiles, model.RoleStudent))
	student.GET("/placements/me", placementHandler.MyPlacement)
	student.POST("/appeals", appealHandler.Submit)
	student.GET("/appeals/me", appealHandler.MyAppeals)
}

// AccessTokenMiddleware authenticates requests with a bearer access token.
// Only tokens minted for the access purpose count as a session: the
// short-lived mfa_pending token and refresh tokens are rejected here, as are
// access tokens blacklisted by logout. Verified claims are stored in the
// request context as *auth.Claims.
func AccessTokenMiddleware(jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			claims, err := jwtService.ValidateTokenForPurpose(tokenString, auth.PurposeAccess)
			if err != nil {
				return nil, err
			}
			revoked, err := tokenStore.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
			if err != nil {
				return nil, err
			}
			if revoked {
				return nil, stderrors.New("access token revoked")
			}
			return claims, nil
		},
	})
}

// RequireRoles allows only callers whose profile currently holds one of the
// given roles. The role is read from the profile, not the token, so a role
// picked after sign-in takes effect without reissuing tokens.
func RequireRoles(profiles service.ProfileService, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			userID, err := claims.UserUUID()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
			}

			role, err := profiles.RoleOf(c.Request().Context(), userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "no active session",
					Code:  "NO_ACTIVE_SESSION",
				})
			}
			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
				Error: "insufficient role",
				Code:  "FORBIDDEN_ROLE",
			})
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
