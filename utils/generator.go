package utils

import (
	"math/rand"
	"time"

	"github.com/learnsphere/backend/models"
	"gorm.io/gorm"
)

const verificationCodeLength = 12
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateVerificationCode returns a fresh certificate verification code
// that is unique across all issued certificates. Codes are matched
// case-sensitively on lookup, so they are generated uppercase only.
func GenerateVerificationCode(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, verificationCodeLength)
		for i := range b {
			b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
		}
		code := string(b)

		var cert models.Certificate
		err := tx.Where("verification_code = ?", code).First(&cert).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return code, nil
			}
			return "", err
		}
	}
}
