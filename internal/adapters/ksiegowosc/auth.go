package ksiegowosc

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
)

// Query parameter names expected by the API on every signed call
const (
	ParamAPIId     = "ApiId"
	ParamTimestamp = "timestamp"
	ParamSignature = "signature"
)

// AuthConfig holds HMAC authentication configuration for the accounting API.
// It is supplied once at construction and never modified.
type AuthConfig struct {
	APIId  string // Public API identifier, sent with every call
	APIKey string // Shared secret for HMAC signing, never transmitted
}

// CalculateSignature calculates the HMAC-SHA256 signature for an API request
// Signature = base64(HMAC-SHA256(apiID + timestamp + body, apiKey))
func CalculateSignature(apiKey, apiID, timestamp string, body []byte) string {
	data := make([]byte, 0, len(apiID)+len(timestamp)+len(body))
	data = append(data, apiID...)
	data = append(data, timestamp...)
	data = append(data, body...)

	h := hmac.New(sha256.New, []byte(apiKey))
	h.Write(data)

	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// ValidateSignature validates an HMAC signature in constant time
func ValidateSignature(apiKey, apiID, timestamp string, body []byte, signature string) bool {
	expected := CalculateSignature(apiKey, apiID, timestamp, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign builds the authentication query for a request body sent at timestamp.
// An empty key still produces a signature; the API rejects it remotely.
func (c AuthConfig) Sign(timestamp string, body []byte) url.Values {
	query := url.Values{}
	query.Set(ParamAPIId, c.APIId)
	query.Set(ParamTimestamp, timestamp)
	query.Set(ParamSignature, CalculateSignature(c.APIKey, c.APIId, timestamp, body))
	return query
}
