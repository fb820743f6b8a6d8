package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignPayload computes the hex HMAC-SHA256 digest the processor sends with
// payment callbacks. The canonical payload is `orderID + "|" + paymentID`;
// delimiter and field order are a protocol fixed point and must not change
// without a version bump on the processor side.
func SignPayload(secret []byte, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// HMACVerifier implements adapter.SignatureVerifier over a shared secret.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

// Verify compares the supplied signature against the expected digest in
// constant time, so a forged callback learns nothing from timing.
func (v *HMACVerifier) Verify(orderID, paymentID, signature string) bool {
	expected := SignPayload(v.secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
