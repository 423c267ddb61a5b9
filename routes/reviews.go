package routes

import (
	"errors"

	"campgrounds-server/storage"
	"campgrounds-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Reviews struct {
	store    CampgroundStore
	validate *validator.Validate
}

func NewReviews(store CampgroundStore, v *validator.Validate) *Reviews {
	return &Reviews{store: store, validate: v}
}

// Create validates the review form, persists the review and appends it to
// the owning campground's reference list.
func (h *Reviews) Create(ctx iris.Context) {
	id, ok := campgroundID(ctx)
	if !ok {
		return
	}
	fields, err := utils.ReadReviewForm(ctx, h.validate)
	if err != nil {
		utils.RenderError(ctx, iris.StatusBadRequest, err.Error())
		return
	}
	_, err = h.store.AddReview(ctx.Request().Context(), id, fields)
	if errors.Is(err, storage.ErrNotFound) {
		redirectNotFound(ctx)
		return
	}
	if err != nil {
		utils.RenderError(ctx, iris.StatusInternalServerError, "Failed to create review")
		return
	}
	utils.Flash(ctx, "success", "Successfully added review!")
	ctx.Redirect("/campgrounds/"+id.Hex(), iris.StatusFound)
}

// Delete removes the review from the campground's reference list and
// deletes the review record.
func (h *Reviews) Delete(ctx iris.Context) {
	id, ok := campgroundID(ctx)
	if !ok {
		return
	}
	reviewID, err := primitive.ObjectIDFromHex(ctx.Params().Get("reviewId"))
	if err != nil {
		redirectNotFound(ctx)
		return
	}
	err = h.store.RemoveReview(ctx.Request().Context(), id, reviewID)
	if errors.Is(err, storage.ErrNotFound) {
		redirectNotFound(ctx)
		return
	}
	if err != nil {
		utils.RenderError(ctx, iris.StatusInternalServerError, "Failed to delete review")
		return
	}
	utils.Flash(ctx, "success", "Successfully deleted review!")
	ctx.Redirect("/campgrounds/"+id.Hex(), iris.StatusFound)
}
