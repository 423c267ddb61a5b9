package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Campground struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Image       string               `bson:"image" json:"image"`
	Price       float64              `bson:"price" json:"price"`
	Location    string               `bson:"location" json:"location"`
	Description string               `bson:"description" json:"description"`
	Reviews     []primitive.ObjectID `bson:"reviews" json:"reviews"`
}

// CampgroundFields holds the validated scalar fields of a campground.
// The review reference list is never written through this type.
type CampgroundFields struct {
	Title       string
	Image       string
	Price       float64
	Location    string
	Description string
}
