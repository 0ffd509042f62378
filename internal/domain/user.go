package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MaxFeaturedPhotos caps the photos an account can pin to its profile.
const MaxFeaturedPhotos = 6

type User struct {
	ID             bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name           string          `bson:"name" json:"name"`
	StudentID      string          `bson:"studentID" json:"studentID"`
	Email          string          `bson:"email" json:"email"`
	PasswordHash   string          `bson:"password" json:"-"`
	Role           Role            `bson:"role" json:"role"`
	Type           AccountType     `bson:"type" json:"type"`
	ProfilePicture *Asset          `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	FeaturedPhotos []FeaturedPhoto `bson:"featuredPhotos" json:"featuredPhotos"`
	RefreshToken   *string         `bson:"refreshToken" json:"-"`
	CreatedAt      time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// HasRole reports whether the account holds any of the given roles.
func (u *User) HasRole(roles ...Role) bool {
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

func (u *User) FeaturedPhoto(assetID string) (int, bool) {
	for i, photo := range u.FeaturedPhotos {
		if photo.AssetID == assetID {
			return i, true
		}
	}
	return -1, false
}

// PublicProfile is the view of an account shown to other signed-in accounts.
type PublicProfile struct {
	ID             bson.ObjectID   `json:"id"`
	Name           string          `json:"name"`
	Type           AccountType     `json:"type"`
	ProfilePicture *Asset          `json:"profilePicture,omitempty"`
	FeaturedPhotos []FeaturedPhoto `json:"featuredPhotos"`
}

func (u *User) Public() PublicProfile {
	photos := u.FeaturedPhotos
	if photos == nil {
		photos = []FeaturedPhoto{}
	}
	return PublicProfile{
		ID:             u.ID,
		Name:           u.Name,
		Type:           u.Type,
		ProfilePicture: u.ProfilePicture,
		FeaturedPhotos: photos,
	}
}

// UserFilter narrows account listings.
type UserFilter struct {
	Type   AccountType
	Role   Role
	Search string
	Limit  int
	Offset int
}
