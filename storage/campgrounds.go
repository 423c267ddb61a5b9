package storage

import (
	"context"

	"campgrounds-server/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CampgroundStore performs CRUD over the campgrounds collection and owns
// the campground-review relationship: reviews are created, referenced and
// cascade-deleted through it. Multi-document sequences are best-effort
// ordered writes, not transactions; the database guarantees per-document
// atomicity only.
type CampgroundStore struct {
	col     *mongo.Collection
	reviews *ReviewStore
}

func NewCampgroundStore(db *mongo.Database) *CampgroundStore {
	return &CampgroundStore{
		col:     db.Collection("campgrounds"),
		reviews: NewReviewStore(db),
	}
}

// Reviews exposes the underlying review store.
func (s *CampgroundStore) Reviews() *ReviewStore {
	return s.reviews
}

func (s *CampgroundStore) List(ctx context.Context) ([]models.Campground, error) {
	cur, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	campgrounds := []models.Campground{}
	if err := cur.All(ctx, &campgrounds); err != nil {
		return nil, err
	}
	return campgrounds, nil
}

func (s *CampgroundStore) Create(ctx context.Context, fields models.CampgroundFields) (primitive.ObjectID, error) {
	campground := models.Campground{
		ID:          primitive.NewObjectID(),
		Title:       fields.Title,
		Image:       fields.Image,
		Price:       fields.Price,
		Location:    fields.Location,
		Description: fields.Description,
		Reviews:     []primitive.ObjectID{},
	}
	if _, err := s.col.InsertOne(ctx, campground); err != nil {
		return primitive.NilObjectID, err
	}
	return campground.ID, nil
}

// GetByID returns the campground with its review references resolved to
// full review records.
func (s *CampgroundStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Campground, []models.Review, error) {
	campground, err := s.GetForEdit(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	reviews, err := s.reviews.FindByIDs(ctx, campground.Reviews)
	if err != nil {
		return nil, nil, err
	}
	return campground, reviews, nil
}

// GetForEdit returns the campground alone, reference list unresolved.
func (s *CampgroundStore) GetForEdit(ctx context.Context, id primitive.ObjectID) (*models.Campground, error) {
	var campground models.Campground
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&campground)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &campground, nil
}

// Update replaces the scalar fields in place; the review reference list is
// left untouched.
func (s *CampgroundStore) Update(ctx context.Context, id primitive.ObjectID, fields models.CampgroundFields) error {
	res, err := s.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"title":       fields.Title,
		"image":       fields.Image,
		"price":       fields.Price,
		"location":    fields.Location,
		"description": fields.Description,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the campground and every review it references. The
// cascade is an explicit two-step operation: referenced reviews first,
// then the campground record.
func (s *CampgroundStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	campground, err := s.GetForEdit(ctx, id)
	if err != nil {
		return err
	}
	if err := s.reviews.DeleteByIDs(ctx, campground.Reviews); err != nil {
		return err
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddReview persists a new review and appends its id to the campground's
// reference list. The campground is checked up front so a review is never
// written for an absent owner.
func (s *CampgroundStore) AddReview(ctx context.Context, campgroundID primitive.ObjectID, fields models.ReviewFields) (primitive.ObjectID, error) {
	if _, err := s.GetForEdit(ctx, campgroundID); err != nil {
		return primitive.NilObjectID, err
	}
	reviewID, err := s.reviews.Insert(ctx, fields)
	if err != nil {
		return primitive.NilObjectID, err
	}
	res, err := s.col.UpdateByID(ctx, campgroundID, bson.M{"$push": bson.M{"reviews": reviewID}})
	if err != nil {
		return primitive.NilObjectID, err
	}
	if res.MatchedCount == 0 {
		return primitive.NilObjectID, ErrNotFound
	}
	return reviewID, nil
}

// RemoveReview pulls the review id from the campground's reference list
// and deletes the review record. Removing a non-member id leaves the list
// alone but the review delete is still attempted, so the operation is
// idempotent from the caller's perspective.
func (s *CampgroundStore) RemoveReview(ctx context.Context, campgroundID, reviewID primitive.ObjectID) error {
	res, err := s.col.UpdateByID(ctx, campgroundID, bson.M{"$pull": bson.M{"reviews": reviewID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	if err := s.reviews.Delete(ctx, reviewID); err != nil && err != ErrNotFound {
		return err
	}
	return nil
}
