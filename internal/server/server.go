package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"slip-payment-backend/internal/apperr"
	"slip-payment-backend/internal/handler"
	"slip-payment-backend/internal/live"
	"slip-payment-backend/internal/middleware"
)

type Server struct {
	echo           *echo.Echo
	paymentHandler *handler.PaymentHandler
	uploadHandler  *handler.UploadHandler
	giftHandler    *handler.GiftHandler
	userHandler    *handler.UserHandler
	otpHandler     *handler.OTPHandler
	miscHandler    *handler.MiscHandler
	hub            *live.Hub
	uploadDir      string
}

func NewServer(
	paymentHandler *handler.PaymentHandler,
	uploadHandler *handler.UploadHandler,
	giftHandler *handler.GiftHandler,
	userHandler *handler.UserHandler,
	otpHandler *handler.OTPHandler,
	miscHandler *handler.MiscHandler,
	hub *live.Hub,
	uploadDir string,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpErrorHandler

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.PhoneAuth())

	s := &Server{
		echo:           e,
		paymentHandler: paymentHandler,
		uploadHandler:  uploadHandler,
		giftHandler:    giftHandler,
		userHandler:    userHandler,
		otpHandler:     otpHandler,
		miscHandler:    miscHandler,
		hub:            hub,
		uploadDir:      uploadDir,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.Static("/uploads", s.uploadDir)

	// legacy endpoints the payment page still calls without the /api prefix
	s.echo.POST("/verify-slip", s.paymentHandler.VerifySlip)
	s.echo.POST("/verify-payment", s.paymentHandler.VerifyPayment)

	s.echo.GET("/ws", func(c echo.Context) error {
		return s.hub.Serve(c.Response(), c.Request())
	})

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- pending uploads / payment confirmation --------
	api.POST("/upload", s.uploadHandler.Upload)
	api.GET("/upload-status/:uploadId", s.uploadHandler.Status)
	api.POST("/confirm-payment", s.paymentHandler.ConfirmPayment)
	api.POST("/ocr", s.miscHandler.OCR)

	// -------- gifts --------
	gifts := api.Group("/gifts")
	gifts.GET("", s.giftHandler.Settings)
	gifts.POST("/order", s.giftHandler.CreateOrder)
	gifts.GET("/order/:orderId", s.giftHandler.GetOrder)
	gifts.POST("/order/:orderId/confirm", s.giftHandler.ConfirmOrder)

	// -------- users & otp --------
	api.POST("/send-otp", s.otpHandler.SendOTP)
	api.POST("/verify-otp", s.otpHandler.VerifyOTP)
	api.GET("/check-phone", s.userHandler.CheckPhone)
	api.GET("/user-profile", s.userHandler.GetProfile)
	api.POST("/update-profile", s.userHandler.UpdateProfile)
	api.GET("/check-birthday", s.userHandler.CheckBirthday)

	// -------- admin proxies --------
	api.GET("/rankings/top", s.miscHandler.TopRankings)
	api.POST("/report", s.miscHandler.Report)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}

// httpErrorHandler maps the apperr taxonomy onto HTTP statuses. Callers only
// ever see the short localized message; the wrapped cause stays in the logs
// Echo's logger middleware already wrote.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var ae *apperr.Error
	if errors.As(err, &ae) {
		_ = c.JSON(statusOf(ae.Kind), map[string]any{
			"success": false,
			"message": ae.Message,
		})
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		_ = c.JSON(he.Code, map[string]any{
			"success": false,
			"message": he.Message,
		})
		return
	}

	_ = c.JSON(http.StatusInternalServerError, map[string]any{
		"success": false,
		"message": "Something went wrong!",
	})
}

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	case apperr.AmountMismatch:
		// routes treat a mismatch as an ordinary outcome; this mapping only
		// applies if one escapes
		return http.StatusBadRequest
	case apperr.RecognitionFailed, apperr.Upstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
