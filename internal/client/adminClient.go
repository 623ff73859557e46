package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"slip-payment-backend/internal/config"
	"slip-payment-backend/internal/model"
)

// GiftOrderHandOff is the payload forwarded to the admin system when a gift
// order is confirmed.
type GiftOrderHandOff struct {
	OrderID     string                `json:"orderId"`
	Sender      string                `json:"sender"`
	TableNumber int                   `json:"tableNumber"`
	Note        string                `json:"note"`
	Items       []model.GiftOrderItem `json:"items"`
	TotalPrice  decimal.Decimal       `json:"totalPrice"`
}

// SlipStat is a fire-and-forget telemetry record about a slip verification.
type SlipStat struct {
	Category string `json:"category"`
	Detail   string `json:"detail"`
	Status   string `json:"status"`
	Amount   string `json:"amount"`
}

type RankEntry struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
	Avatar string `json:"avatar,omitempty"`
}

type RankingsResult struct {
	Ranks      []RankEntry `json:"ranks"`
	TotalUsers int         `json:"totalUsers"`
}

type AdminClient interface {
	FetchGiftSettings(ctx context.Context) (*model.GiftSettings, error)
	SubmitGiftOrder(ctx context.Context, order *GiftOrderHandOff) error
	ReportSlipStat(ctx context.Context, stat *SlipStat) error
	ForwardUpload(ctx context.Context, upload *model.PendingUpload) error
	TopRankings(ctx context.Context) (*RankingsResult, error)
	Report(ctx context.Context, category, detail string) error
}

type adminClientImpl struct {
	httpClient *http.Client
	baseURL    string
}

func NewAdminClient(cfg *config.Admin) AdminClient {
	return &adminClientImpl{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

func (c *adminClientImpl) FetchGiftSettings(ctx context.Context) (*model.GiftSettings, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/gifts/settings", nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("admin gift settings request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus("gift settings", resp); err != nil {
		return nil, err
	}

	var settings model.GiftSettings
	if err := json.NewDecoder(resp.Body).Decode(&settings); err != nil {
		return nil, fmt.Errorf("decode gift settings: %w", err)
	}
	return &settings, nil
}

func (c *adminClientImpl) SubmitGiftOrder(ctx context.Context, order *GiftOrderHandOff) error {
	return c.postJSON(ctx, "/api/gifts/order", "gift order hand-off", order)
}

func (c *adminClientImpl) ReportSlipStat(ctx context.Context, stat *SlipStat) error {
	return c.postJSON(ctx, "/api/stat-slip", "stat-slip", stat)
}

func (c *adminClientImpl) Report(ctx context.Context, category, detail string) error {
	return c.postJSON(ctx, "/api/report", "report", map[string]string{
		"category": category,
		"detail":   detail,
	})
}

// ForwardUpload sends the finalized ad-hoc content to the admin system as a
// multipart form, attaching the stored file when it still exists on disk.
func (c *adminClientImpl) ForwardUpload(ctx context.Context, upload *model.PendingUpload) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"text":       upload.Text,
		"type":       upload.ContentType,
		"time":       fmt.Sprintf("%d", upload.DurationMinutes),
		"price":      upload.Price.String(),
		"sender":     upload.Sender,
		"socialType": upload.SocialType,
		"socialName": upload.SocialName,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("write form field %s: %w", name, err)
		}
	}

	if upload.FilePath != "" {
		f, err := os.Open(upload.FilePath)
		if err == nil {
			part, err := w.CreateFormFile("file", upload.FileName)
			if err != nil {
				f.Close()
				return fmt.Errorf("create form file: %w", err)
			}
			if _, err := io.Copy(part, f); err != nil {
				f.Close()
				return fmt.Errorf("copy upload file: %w", err)
			}
			f.Close()
		}
		// a file missing from disk is forwarded without attachment
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("admin upload request: %w", err)
	}
	defer resp.Body.Close()

	return checkStatus("upload forward", resp)
}

func (c *adminClientImpl) TopRankings(ctx context.Context) (*RankingsResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/rankings/top", nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("admin rankings request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus("rankings", resp); err != nil {
		return nil, err
	}

	var result RankingsResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode rankings: %w", err)
	}
	if result.Ranks == nil {
		result.Ranks = []RankEntry{}
	}
	return &result, nil
}

func (c *adminClientImpl) postJSON(ctx context.Context, path, label string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", label, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("admin %s request: %w", label, err)
	}
	defer resp.Body.Close()

	return checkStatus(label, resp)
}

// checkStatus captures a bounded slice of the error body for logs. The body
// never reaches end users.
func checkStatus(label string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("admin %s failed: status=%d body=%s", label, resp.StatusCode, string(b))
}
