package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"slip-payment-backend/internal/apperr"
	"slip-payment-backend/internal/dto"
	"slip-payment-backend/internal/model"
	"slip-payment-backend/internal/store"
)

type UploadHandler struct {
	uploads   *store.PendingUploadStore
	uploadDir string
}

func NewUploadHandler(uploads *store.PendingUploadStore, uploadDir string) *UploadHandler {
	return &UploadHandler{
		uploads:   uploads,
		uploadDir: uploadDir,
	}
}

// Upload registers ad-hoc display content awaiting payment. The entry lives
// at most the configured TTL; the returned id is what the payment
// confirmation call must present.
func (h *UploadHandler) Upload(c echo.Context) error {
	duration, _ := strconv.Atoi(c.FormValue("time"))

	price := decimal.Zero
	if v := c.FormValue("price"); v != "" {
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return apperr.New(apperr.Validation, "ราคาไม่ถูกต้อง")
		}
		price = parsed
	}

	upload := model.PendingUpload{
		Text:            c.FormValue("text"),
		ContentType:     c.FormValue("type"),
		DurationMinutes: duration,
		Price:           price,
		Sender:          c.FormValue("sender"),
		SocialType:      c.FormValue("socialType"),
		SocialName:      c.FormValue("socialName"),
	}

	if fileHeader, err := c.FormFile("file"); err == nil {
		name, path, err := h.saveFile(fileHeader)
		if err != nil {
			return err
		}
		upload.FileName = name
		upload.FilePath = path
	}

	id := h.uploads.Put(upload)
	return c.JSON(http.StatusOK, &dto.UploadResponse{Success: true, UploadID: id})
}

// Status reports whether a pending upload still exists. Expired entries look
// identical to never-existed ones.
func (h *UploadHandler) Status(c echo.Context) error {
	upload, err := h.uploads.Get(c.Param("uploadId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusOK, &dto.UploadStatusResponse{Exists: false})
		}
		return err
	}
	return c.JSON(http.StatusOK, &dto.UploadStatusResponse{Exists: true, Status: upload.Status})
}

// saveFile stores the uploaded file under a fresh name, keeping only the
// original extension.
func (h *UploadHandler) saveFile(fileHeader *multipart.FileHeader) (string, string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(fileHeader.Filename)
	path := filepath.Join(h.uploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", err
	}
	return name, path, nil
}
