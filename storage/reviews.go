package storage

import (
	"context"

	"campgrounds-server/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slices"
)

// ReviewStore performs CRUD over the reviews collection. Review lifecycle
// is driven by the owning campground (see CampgroundStore), so this store
// stays a thin collection wrapper.
type ReviewStore struct {
	col *mongo.Collection
}

func NewReviewStore(db *mongo.Database) *ReviewStore {
	return &ReviewStore{col: db.Collection("reviews")}
}

func (s *ReviewStore) Insert(ctx context.Context, fields models.ReviewFields) (primitive.ObjectID, error) {
	review := models.Review{
		ID:     primitive.NewObjectID(),
		Body:   fields.Body,
		Rating: fields.Rating,
		Author: fields.Author,
	}
	if _, err := s.col.InsertOne(ctx, review); err != nil {
		return primitive.NilObjectID, err
	}
	return review.ID, nil
}

func (s *ReviewStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var review models.Review
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *ReviewStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ReviewStore) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

// FindByIDs resolves a reference list to full review records, preserving
// the order of ids. Dangling references are skipped.
func (s *ReviewStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Review, error) {
	if len(ids) == 0 {
		return []models.Review{}, nil
	}
	cur, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var found []models.Review
	if err := cur.All(ctx, &found); err != nil {
		return nil, err
	}
	reviews := make([]models.Review, 0, len(found))
	for _, id := range ids {
		i := slices.IndexFunc(found, func(r models.Review) bool { return r.ID == id })
		if i >= 0 {
			reviews = append(reviews, found[i])
		}
	}
	return reviews, nil
}
