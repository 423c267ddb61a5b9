package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Review struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Body   string             `bson:"body" json:"body"`
	Rating int                `bson:"rating" json:"rating"`
	Author string             `bson:"author" json:"author"`
}

// ReviewFields holds the validated fields of a review.
type ReviewFields struct {
	Body   string
	Rating int
	Author string
}
