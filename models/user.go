package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileImage references an image in external object storage. PublicID is
// the handle needed to delete the image again.
type ProfileImage struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"public_id" json:"publicId"`
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Username     string             `bson:"username" json:"username"`
	Password     string             `bson:"password" json:"-"`
	ProfileImage *ProfileImage      `bson:"profile_image,omitempty" json:"profileImage,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// PublicUser is the client-facing projection of an account. CreatedAt is only
// populated on the profile endpoint.
type PublicUser struct {
	Username     string        `json:"username"`
	ProfileImage *ProfileImage `json:"profileImage,omitempty"`
	CreatedAt    *time.Time    `json:"createdAt,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
