package models

// PushTokenRegisterRequest is the request body for registering a push token.
type PushTokenRegisterRequest struct {
	Token       string  `json:"token" validate:"required"`
	UserID      string  `json:"userId,omitempty"`
	Platform    *string `json:"platform,omitempty"`
	DeviceModel *string `json:"deviceModel,omitempty"`
	OSVersion   *string `json:"osVersion,omitempty"`
}

// PushToken represents a registered push token.
type PushToken struct {
	Token       string    `json:"token"`
	UserID      string    `json:"userId,omitempty"`
	Platform    *string   `json:"platform,omitempty"`
	DeviceModel *string   `json:"deviceModel,omitempty"`
	OSVersion   *string   `json:"osVersion,omitempty"`
	LastUsedAt  Timestamp `json:"lastUsedAt"`
	CreatedAt   Timestamp `json:"createdAt"`
}

// PagedPushTokens represents a list of push tokens.
type PagedPushTokens struct {
	Items []PushToken       `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}
