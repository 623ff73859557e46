package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"slip-payment-backend/internal/config"
)

// OTPClient talks to the SMS gateway, which is the source of truth for OTP
// delivery and verification.
type OTPClient interface {
	// Send requests an OTP for the phone and returns the gateway token that
	// must accompany the later validation call.
	Send(ctx context.Context, phone string) (string, error)
	Validate(ctx context.Context, otp, token string) error
}

type otpClientImpl struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	secretKey  string
	projectKey string
}

func NewOTPClient(cfg *config.OTP) OTPClient {
	return &otpClientImpl{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		secretKey:  cfg.SecretKey,
		projectKey: cfg.ProjectKey,
	}
}

// gatewayResponse is the SMSMKT envelope; code "000" means success.
type gatewayResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
	Result struct {
		Token string `json:"token"`
	} `json:"result"`
}

func (c *otpClientImpl) Send(ctx context.Context, phone string) (string, error) {
	result, err := c.post(ctx, "/otp-send", map[string]string{
		"project_key": c.projectKey,
		"phone":       phone,
	})
	if err != nil {
		return "", err
	}
	if result.Code != "000" {
		return "", fmt.Errorf("otp send rejected: %s", result.Detail)
	}
	return result.Result.Token, nil
}

func (c *otpClientImpl) Validate(ctx context.Context, otp, token string) error {
	result, err := c.post(ctx, "/otp-validate", map[string]string{
		"otp_code": otp,
		"token":    token,
		"ref_code": "",
	})
	if err != nil {
		return err
	}
	if result.Code != "000" {
		return fmt.Errorf("otp validation rejected: %s", result.Detail)
	}
	return nil
}

func (c *otpClientImpl) post(ctx context.Context, path string, payload map[string]string) (*gatewayResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal otp payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api_key", c.apiKey)
	req.Header.Set("secret_key", c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("otp gateway request: %w", err)
	}
	defer resp.Body.Close()

	var result gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode otp gateway response: %w", err)
	}
	return &result, nil
}
