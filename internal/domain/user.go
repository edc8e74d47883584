package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email"         json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	DisplayName  string             `bson:"display_name"  json:"displayName"`
	Username     string             `bson:"username"      json:"username"`
	// Token is stored verbatim as supplied at registration; the service
	// never mints or validates it.
	Token         string    `bson:"token,omitempty" json:"token,omitempty"`
	EmailVerified bool      `bson:"email_verified"  json:"emailVerified"`
	Profile       Profile   `bson:",inline"         json:"profile"`
	CreatedAt     time.Time `bson:"created_at"      json:"createdAt"`
}

// Profile holds the free-form fields settable via profile update.
// Pointer fields: nil means "not supplied", поле не трогаем при апдейте.
type Profile struct {
	Cultivation *string `bson:"cultivation,omitempty"  json:"cultivation,omitempty"`
	Experience  *string `bson:"experience,omitempty"   json:"experience,omitempty"`
	Address     *string `bson:"address,omitempty"      json:"address,omitempty"`
	PhoneNumber *string `bson:"phone_number,omitempty" json:"phoneNumber,omitempty"`
	Bio         *string `bson:"bio,omitempty"          json:"bio,omitempty"`
}

// UserSummary is what login hands back to the caller.
type UserSummary struct {
	ID          primitive.ObjectID `json:"id"`
	Email       string             `json:"email"`
	DisplayName string             `json:"displayName"`
	Username    string             `json:"username"`
	Token       string             `json:"token,omitempty"`
}
