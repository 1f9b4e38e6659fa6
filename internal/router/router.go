package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"userhub/internal/auth"
	"userhub/internal/config"
	apperrors "userhub/internal/errors"
	"userhub/internal/handler"
	"userhub/internal/metrics"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *zap.Logger,
	userHandler *handler.UserHandler,
	authHandler *handler.AuthHandler,
) {
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(metrics.Middleware())
	e.Use(accessLog(log))
	e.HTTPErrorHandler = errorHandler(log)

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Session issuing
	api.POST("/auth/sign-up", authHandler.SignUp)
	api.POST("/auth/sign-in", authHandler.SignIn)
	api.POST("/auth/sign-out", authHandler.SignOut)

	// Users. Reads are public; the mutating handlers verify the session
	// cookie and run the authorization policy themselves, so no route
	// guard is attached here.
	api.GET("/users", userHandler.ListUsers)
	api.GET("/users/:id", userHandler.GetUser)
	api.PATCH("/users/:id", userHandler.UpdateUser)
	api.DELETE("/users/:id", userHandler.DeleteUser)

	// Session introspection, guarded by the cookie token.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "cookie:" + auth.SessionCookieName,
	}))
	secured.GET("/me", func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return c.JSON(http.StatusUnauthorized, apperrors.ErrorResponse{Error: "Unauthorized"})
		}
		claims, _ := token.Claims.(jwt.MapClaims)
		return c.JSON(http.StatusOK, echo.Map{"token_claims": claims})
	})
}

// accessLog emits one structured record per request.
func accessLog(log *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURI:       true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				log.Error("request", append(fields, zap.Error(v.Error))...)
			} else {
				log.Info("request", fields...)
			}
			return nil
		},
	})
}

// errorHandler is the terminal translator for errors that handlers did
// not recover locally. Infrastructure failures are logged in full but
// never leak their message to the caller.
func errorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := fmt.Sprintf("%v", he.Message)
			if he.Code >= http.StatusInternalServerError {
				log.Error("request failed", zap.Int("status", he.Code), zap.Error(err))
				msg = "internal server error"
			}
			_ = c.JSON(he.Code, apperrors.ErrorResponse{Error: msg})
			return
		}
		mapped := apperrors.MapErrorToHTTP(err)
		log.Error("unhandled error",
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", mapped.StatusCode),
			zap.Error(err))
		_ = c.JSON(mapped.StatusCode, mapped.ToErrorResponse())
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
