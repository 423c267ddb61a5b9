package routes

import (
	"context"
	"errors"

	"campgrounds-server/models"
	"campgrounds-server/storage"
	"campgrounds-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CampgroundStore is the persistence surface the handlers orchestrate.
// It is an interface so tests can run against an isolated fake instead of
// a live database.
type CampgroundStore interface {
	List(ctx context.Context) ([]models.Campground, error)
	Create(ctx context.Context, fields models.CampgroundFields) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Campground, []models.Review, error)
	GetForEdit(ctx context.Context, id primitive.ObjectID) (*models.Campground, error)
	Update(ctx context.Context, id primitive.ObjectID, fields models.CampgroundFields) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddReview(ctx context.Context, campgroundID primitive.ObjectID, fields models.ReviewFields) (primitive.ObjectID, error)
	RemoveReview(ctx context.Context, campgroundID, reviewID primitive.ObjectID) error
}

type Campgrounds struct {
	store    CampgroundStore
	validate *validator.Validate
}

func NewCampgrounds(store CampgroundStore, v *validator.Validate) *Campgrounds {
	return &Campgrounds{store: store, validate: v}
}

func (h *Campgrounds) Home(ctx iris.Context) {
	ctx.View("home.html")
}

// Index renders all campgrounds, unfiltered.
func (h *Campgrounds) Index(ctx iris.Context) {
	campgrounds, err := h.store.List(ctx.Request().Context())
	if err != nil {
		utils.RenderError(ctx, iris.StatusInternalServerError, "Failed to load campgrounds")
		return
	}
	ctx.ViewData("campgrounds", campgrounds)
	ctx.View("campgrounds/index.html")
}

func (h *Campgrounds) New(ctx iris.Context) {
	ctx.View("campgrounds/new.html")
}

func (h *Campgrounds) Create(ctx iris.Context) {
	fields, err := utils.ReadCampgroundForm(ctx, h.validate)
	if err != nil {
		utils.RenderError(ctx, iris.StatusBadRequest, err.Error())
		return
	}
	id, err := h.store.Create(ctx.Request().Context(), fields)
	if err != nil {
		utils.RenderError(ctx, iris.StatusInternalServerError, "Failed to create campground")
		return
	}
	utils.Flash(ctx, "success", "Successfully created a new campground!")
	ctx.Redirect("/campgrounds/"+id.Hex(), iris.StatusFound)
}

// Show renders one campground with its reviews resolved.
func (h *Campgrounds) Show(ctx iris.Context) {
	id, ok := campgroundID(ctx)
	if !ok {
		return
	}
	campground, reviews, err := h.store.GetByID(ctx.Request().Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		redirectNotFound(ctx)
		return
	}
	if err != nil {
		utils.RenderError(ctx, iris.StatusInternalServerError, "Failed to load campground")
		return
	}
	ctx.ViewData("campground", campground)
	ctx.ViewData("reviews", reviews)
	ctx.View("campgrounds/show.html")
}

func (h *Campgrounds) Edit(ctx iris.Context) {
	id, ok := campgroundID(ctx)
	if !ok {
		return
	}
	campground, err := h.store.GetForEdit(ctx.Request().Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		redirectNotFound(ctx)
		return
	}
	if err != nil {
		utils.RenderError(ctx, iris.StatusInternalServerError, "Failed to load campground")
		return
	}
	ctx.ViewData("campground", campground)
	ctx.View("campgrounds/edit.html")
}

// Update replaces all scalar fields; the review list is untouched.
func (h *Campgrounds) Update(ctx iris.Context) {
	id, ok := campgroundID(ctx)
	if !ok {
		return
	}
	fields, err := utils.ReadCampgroundForm(ctx, h.validate)
	if err != nil {
		utils.RenderError(ctx, iris.StatusBadRequest, err.Error())
		return
	}
	err = h.store.Update(ctx.Request().Context(), id, fields)
	if errors.Is(err, storage.ErrNotFound) {
		redirectNotFound(ctx)
		return
	}
	if err != nil {
		utils.RenderError(ctx, iris.StatusInternalServerError, "Failed to update campground")
		return
	}
	utils.Flash(ctx, "success", "Successfully updated campground!")
	ctx.Redirect("/campgrounds/"+id.Hex(), iris.StatusFound)
}

// Delete cascades: the store deletes every referenced review before the
// campground itself.
func (h *Campgrounds) Delete(ctx iris.Context) {
	id, ok := campgroundID(ctx)
	if !ok {
		return
	}
	err := h.store.Delete(ctx.Request().Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		redirectNotFound(ctx)
		return
	}
	if err != nil {
		utils.RenderError(ctx, iris.StatusInternalServerError, "Failed to delete campground")
		return
	}
	utils.Flash(ctx, "success", "Successfully deleted campground!")
	ctx.Redirect("/campgrounds", iris.StatusFound)
}

// campgroundID parses the {id} path parameter. A malformed id cannot
// match any document, so it gets the same treatment as an absent one.
func campgroundID(ctx iris.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(ctx.Params().Get("id"))
	if err != nil {
		redirectNotFound(ctx)
		return primitive.NilObjectID, false
	}
	return id, true
}

func redirectNotFound(ctx iris.Context) {
	utils.Flash(ctx, "error", "Campground not found!")
	ctx.Redirect("/campgrounds", iris.StatusFound)
}
