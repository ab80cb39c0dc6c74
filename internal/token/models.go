// Package token provides the push-token registry: one durable record per
// registered device destination, optionally associated with a user.
package token

import (
	"strings"
	"time"
)

// PushToken is a device's registered push destination. The token string is
// the unique identity of the record.
type PushToken struct {
	Token      string
	OwnerID    string // empty means unassociated (e.g. a guest device)
	DeviceInfo DeviceInfo
	LastUsedAt time.Time
	CreatedAt  time.Time
}

// DeviceInfo is opaque device metadata captured at registration. The
// registry stores it verbatim and never interprets it.
type DeviceInfo struct {
	Platform  string `json:"platform,omitempty"`
	Model     string `json:"model,omitempty"`
	OSVersion string `json:"osVersion,omitempty"`
}

// NormalizeOwnerID canonicalizes an owner identifier at write time so that
// lookups do not depend on how the caller happened to format the id.
func NormalizeOwnerID(ownerID string) string {
	return strings.ToLower(strings.TrimSpace(ownerID))
}
