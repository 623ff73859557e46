package dto

import "slip-payment-backend/internal/model"

type UploadResponse struct {
	Success  bool   `json:"success"`
	UploadID string `json:"uploadId"`
}

type UploadStatusResponse struct {
	Exists bool   `json:"exists"`
	Status string `json:"status,omitempty"`
}

type ConfirmPaymentRequest struct {
	UploadID string `json:"uploadId"`
}

type SimpleResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type GiftOrderItemRequest struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type GiftOrderRequest struct {
	Items       []GiftOrderItemRequest `json:"items"`
	TableNumber int                    `json:"tableNumber"`
	Note        string                 `json:"note"`
	SenderName  string                 `json:"senderName"`
}

type GiftOrderResponse struct {
	Success bool             `json:"success"`
	Order   *model.GiftOrder `json:"order"`
}

type GiftSettingsResponse struct {
	Success  bool                `json:"success"`
	Settings *model.GiftSettings `json:"settings"`
}

type SendOTPRequest struct {
	Phone string `json:"phone"`
}

type SendOTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

type VerifyOTPRequest struct {
	OTP      string `json:"otp"`
	Token    string `json:"token"`
	Phone    string `json:"phone"`
	Birthday string `json:"birthday"`
}

type VerifyOTPResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Token   string             `json:"token,omitempty"`
	User    *model.UserProfile `json:"user,omitempty"`
}

type UpdateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Birthday string `json:"birthday"`
	Avatar   string `json:"avatar"`
}

type UserResponse struct {
	Success bool               `json:"success"`
	Exists  bool               `json:"exists,omitempty"`
	Message string             `json:"message,omitempty"`
	User    *model.UserProfile `json:"user,omitempty"`
}

type VerifyPaymentRequest struct {
	Amount int64  `json:"amount"`
	Method string `json:"method"`
}
