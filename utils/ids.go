package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateOrderID returns ORD-YYYYMMDD-<unix seconds>-<4 random chars>.
func GenerateOrderID(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%d-%s", now.Format("20060102"), now.Unix(), randomCode(4))
}

// GenerateTrackingNumber returns TRK-YYYYMMDD-<8 random chars>.
func GenerateTrackingNumber(now time.Time) string {
	return fmt.Sprintf("TRK-%s-%s", now.Format("20060102"), randomCode(8))
}

func randomCode(n int) string {
	max := big.NewInt(int64(len(idAlphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms.
			panic(fmt.Sprintf("crypto/rand: %v", err))
		}
		buf[i] = idAlphabet[idx.Int64()]
	}
	return string(buf)
}
