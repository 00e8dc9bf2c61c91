package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
)

type createOrderFingerprint struct {
	ClientID int64  `json:"clientId"`
	Notes    string `json:"notes"`
}

// FingerprintCreateOrder hashes the normalized payload of a create request.
// The idempotency key itself is not part of the hash.
func FingerprintCreateOrder(input ports.CreateOrderInput) (string, error) {
	payload, err := json.Marshal(createOrderFingerprint{
		ClientID: input.ClientID,
		Notes:    strings.TrimSpace(input.Notes),
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
