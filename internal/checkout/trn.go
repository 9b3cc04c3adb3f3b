package checkout

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// NewTRN issues a transaction reference number, unique per checkout
// attempt and generated before gateway dispatch.
func NewTRN() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return "TRN-" + time.Now().Format("20060102") + "-" + hex.EncodeToString(buf)
}
