package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type VoteOption struct {
	ID    string `bson:"id" json:"id"`
	Label string `bson:"label" json:"label"`
	Count int    `bson:"count" json:"count"`
}

type Ballot struct {
	UserID   bson.ObjectID `bson:"userId" json:"userId"`
	OptionID string        `bson:"optionId" json:"optionId"`
	CastAt   time.Time     `bson:"castAt" json:"castAt"`
}

// Vote is a poll over tour choices; each account may cast one ballot.
type Vote struct {
	ID          bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string         `bson:"title" json:"title"`
	Description *string        `bson:"description,omitempty" json:"description,omitempty"`
	TourID      *bson.ObjectID `bson:"tourId,omitempty" json:"tourId,omitempty"`
	Options     []VoteOption   `bson:"options" json:"options"`
	Ballots     []Ballot       `bson:"ballots" json:"-"`
	ClosesAt    *time.Time     `bson:"closesAt,omitempty" json:"closesAt,omitempty"`
	CreatedBy   bson.ObjectID  `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time      `bson:"updatedAt" json:"updatedAt"`
}

func (v *Vote) Closed(now time.Time) bool {
	return v.ClosesAt != nil && !now.Before(*v.ClosesAt)
}

func (v *Vote) HasOption(optionID string) bool {
	for _, opt := range v.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

// BallotOf returns the option the account voted for, if any.
func (v *Vote) BallotOf(userID bson.ObjectID) (string, bool) {
	for _, b := range v.Ballots {
		if b.UserID == userID {
			return b.OptionID, true
		}
	}
	return "", false
}

func (v *Vote) TotalBallots() int {
	total := 0
	for _, opt := range v.Options {
		total += opt.Count
	}
	return total
}
