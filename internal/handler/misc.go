package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"slip-payment-backend/internal/apperr"
	"slip-payment-backend/internal/client"
	"slip-payment-backend/internal/config"
)

// MiscHandler hosts the thin admin proxies: rankings, reports and the raw
// OCR endpoint.
type MiscHandler struct {
	adminClient client.AdminClient
	recognizer  client.Recognizer
	languages   string
}

func NewMiscHandler(adminClient client.AdminClient, recognizer client.Recognizer, ocrCfg *config.OCR) *MiscHandler {
	return &MiscHandler{
		adminClient: adminClient,
		recognizer:  recognizer,
		languages:   ocrCfg.Languages,
	}
}

func (h *MiscHandler) TopRankings(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.adminClient.TopRankings(ctx)
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "ไม่สามารถโหลดอันดับ", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":    true,
		"ranks":      result.Ranks,
		"totalUsers": result.TotalUsers,
	})
}

func (h *MiscHandler) Report(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Category string `json:"category"`
		Detail   string `json:"detail"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "category and detail are required")
	}
	if req.Category == "" || req.Detail == "" {
		return apperr.New(apperr.Validation, "category and detail are required")
	}

	if err := h.adminClient.Report(ctx, req.Category, req.Detail); err != nil {
		return apperr.Wrap(apperr.Upstream, "ส่งข้อมูลไป admin ไม่สำเร็จ", err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// OCR exposes the recognition capability directly, mainly for the UI's
// debugging view.
func (h *MiscHandler) OCR(c echo.Context) error {
	ctx := c.Request().Context()

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return apperr.New(apperr.Validation, "No file uploaded")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	image, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	text, err := h.recognizer.Recognize(ctx, image, fileHeader.Filename, h.languages)
	if err != nil {
		return apperr.Wrap(apperr.RecognitionFailed, "OCR failed", err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "text": text})
}
