package domain

import "time"

// VerificationCode is a single-use, time-limited email verification code.
// Consumed codes are deleted; expired ones linger until a lookup rejects
// them (Mongo TTL sweep уберёт их в фоне).
type VerificationCode struct {
	ID        interface{} `bson:"_id,omitempty"`
	Email     string      `bson:"email"`
	Code      string      `bson:"code"` // 6 digits, "000000".."999999"
	ExpiresAt time.Time   `bson:"expires_at"`
	CreatedAt time.Time   `bson:"created_at"`
}
