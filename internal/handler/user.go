package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"slip-payment-backend/internal/apperr"
	"slip-payment-backend/internal/dto"
	"slip-payment-backend/internal/middleware"
	"slip-payment-backend/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) CheckPhone(c echo.Context) error {
	ctx := c.Request().Context()

	phone := c.QueryParam("phone")
	if phone == "" {
		return apperr.New(apperr.Validation, "Phone number required")
	}

	user, err := h.userService.FindByPhone(ctx, phone)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return c.JSON(http.StatusOK, &dto.UserResponse{
				Success: true,
				Exists:  false,
				Message: "Phone not registered yet",
			})
		}
		return err
	}

	return c.JSON(http.StatusOK, &dto.UserResponse{Success: true, Exists: true, User: user})
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()

	phone, ok := middleware.PhoneFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "No token")
	}

	user, err := h.userService.FindByPhone(ctx, phone)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.UserResponse{Success: true, User: user})
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	phone, ok := middleware.PhoneFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "No token")
	}

	var req dto.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "invalid request body")
	}

	// only fields actually supplied overwrite the stored profile
	fields := map[string]interface{}{}
	if req.Username != "" {
		fields["username"] = req.Username
	}
	if req.Email != "" {
		fields["email"] = req.Email
	}
	if req.Birthday != "" {
		fields["birthday"] = req.Birthday
	}
	if req.Avatar != "" {
		fields["avatar"] = req.Avatar
	}

	user, err := h.userService.UpdateProfile(ctx, phone, fields)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.UserResponse{Success: true, User: user})
}

// CheckBirthday compares a DD/MM/YYYY birthday against today's date.
func (h *UserHandler) CheckBirthday(c echo.Context) error {
	birthday := c.QueryParam("birthday")

	isBirthday := false
	parts := strings.Split(birthday, "/")
	if len(parts) == 3 {
		day, dayErr := strconv.Atoi(parts[0])
		month, monthErr := strconv.Atoi(parts[1])
		if dayErr == nil && monthErr == nil {
			now := time.Now()
			isBirthday = day == now.Day() && month == int(now.Month())
		}
	}

	return c.JSON(http.StatusOK, map[string]bool{"isBirthday": isBirthday})
}
