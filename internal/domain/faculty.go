package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Qualification struct {
	Degree      string `bson:"degree" json:"degree" validate:"required"`
	Institution string `bson:"institution" json:"institution" validate:"required"`
	Year        *int   `bson:"year,omitempty" json:"year,omitempty" validate:"omitempty,gte=1900,lte=2100"`
}

type Faculty struct {
	ID             bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name           string          `bson:"name" json:"name"`
	Department     string          `bson:"department" json:"department"`
	Designation    *string         `bson:"designation,omitempty" json:"designation,omitempty"`
	Email          *string         `bson:"email,omitempty" json:"email,omitempty"`
	Phone          *string         `bson:"phone,omitempty" json:"phone,omitempty"`
	Bio            *string         `bson:"bio,omitempty" json:"bio,omitempty"`
	Qualifications []Qualification `bson:"qualifications" json:"qualifications"`
	Photo          *Asset          `bson:"photo,omitempty" json:"photo,omitempty"`
	AccountID      *bson.ObjectID  `bson:"accountId,omitempty" json:"accountId,omitempty"`
	CreatedAt      time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// FacultyFields carries the editable scalar fields of a faculty profile.
// Nil pointers leave the stored value untouched on update.
type FacultyFields struct {
	Name        *string
	Department  *string
	Designation *string
	Email       *string
	Phone       *string
	Bio         *string
	AccountID   *bson.ObjectID
}

type FacultyFilter struct {
	Department string
	Search     string
	Limit      int
	Offset     int
}
