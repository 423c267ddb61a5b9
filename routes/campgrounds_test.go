package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"campgrounds-server/models"
	"campgrounds-server/storage"
	"campgrounds-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/methodoverride"
	"github.com/kataras/iris/v12/sessions"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeStore implements CampgroundStore in memory, mirroring the store
// semantics (empty reference list on create, cascade on delete, pull +
// delete on review removal).
type fakeStore struct {
	campgrounds map[primitive.ObjectID]*models.Campground
	reviews     map[primitive.ObjectID]*models.Review
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		campgrounds: map[primitive.ObjectID]*models.Campground{},
		reviews:     map[primitive.ObjectID]*models.Review{},
	}
}

func (f *fakeStore) List(ctx context.Context) ([]models.Campground, error) {
	out := []models.Campground{}
	for _, c := range f.campgrounds {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeStore) Create(ctx context.Context, fields models.CampgroundFields) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	f.campgrounds[id] = &models.Campground{
		ID:          id,
		Title:       fields.Title,
		Image:       fields.Image,
		Price:       fields.Price,
		Location:    fields.Location,
		Description: fields.Description,
		Reviews:     []primitive.ObjectID{},
	}
	return id, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Campground, []models.Review, error) {
	c, ok := f.campgrounds[id]
	if !ok {
		return nil, nil, storage.ErrNotFound
	}
	reviews := []models.Review{}
	for _, rid := range c.Reviews {
		if r, ok := f.reviews[rid]; ok {
			reviews = append(reviews, *r)
		}
	}
	return c, reviews, nil
}

func (f *fakeStore) GetForEdit(ctx context.Context, id primitive.ObjectID) (*models.Campground, error) {
	c, ok := f.campgrounds[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) Update(ctx context.Context, id primitive.ObjectID, fields models.CampgroundFields) error {
	c, ok := f.campgrounds[id]
	if !ok {
		return storage.ErrNotFound
	}
	c.Title = fields.Title
	c.Image = fields.Image
	c.Price = fields.Price
	c.Location = fields.Location
	c.Description = fields.Description
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	c, ok := f.campgrounds[id]
	if !ok {
		return storage.ErrNotFound
	}
	for _, rid := range c.Reviews {
		delete(f.reviews, rid)
	}
	delete(f.campgrounds, id)
	return nil
}

func (f *fakeStore) AddReview(ctx context.Context, campgroundID primitive.ObjectID, fields models.ReviewFields) (primitive.ObjectID, error) {
	c, ok := f.campgrounds[campgroundID]
	if !ok {
		return primitive.NilObjectID, storage.ErrNotFound
	}
	id := primitive.NewObjectID()
	f.reviews[id] = &models.Review{ID: id, Body: fields.Body, Rating: fields.Rating, Author: fields.Author}
	c.Reviews = append(c.Reviews, id)
	return id, nil
}

func (f *fakeStore) RemoveReview(ctx context.Context, campgroundID, reviewID primitive.ObjectID) error {
	c, ok := f.campgrounds[campgroundID]
	if !ok {
		return storage.ErrNotFound
	}
	kept := []primitive.ObjectID{}
	for _, rid := range c.Reviews {
		if rid != reviewID {
			kept = append(kept, rid)
		}
	}
	c.Reviews = kept
	delete(f.reviews, reviewID)
	return nil
}

// buildTestApp wires the handlers the same way main does, against the
// given store.
func buildTestApp(store CampgroundStore) *iris.Application {
	app := iris.New()
	v := validator.New()
	app.Validator = v

	app.RegisterView(iris.HTML("../views", ".html").Layout("layouts/main.html"))

	app.WrapRouter(methodoverride.New(
		methodoverride.SaveOriginalMethod("_originalMethod"),
	))

	sess := sessions.New(sessions.Config{
		Cookie:       "campground_session",
		Expires:      7 * 24 * time.Hour,
		AllowReclaim: true,
	})
	app.Use(sess.Handler())
	app.Use(func(ctx iris.Context) {
		ctx.ViewData("success", utils.ConsumeFlash(ctx, "success"))
		ctx.ViewData("error", utils.ConsumeFlash(ctx, "error"))
		ctx.Next()
	})

	app.OnAnyErrorCode(func(ctx iris.Context) {
		message := utils.ErrorMessage(ctx)
		if message == "" {
			if ctx.GetStatusCode() == iris.StatusNotFound {
				message = "Page Not Found"
			} else {
				message = "Something went wrong"
			}
		}
		ctx.ViewData("statusCode", ctx.GetStatusCode())
		ctx.ViewData("message", message)
		ctx.View("error.html")
	})

	campgrounds := NewCampgrounds(store, v)
	reviews := NewReviews(store, v)

	app.Get("/", campgrounds.Home)
	cg := app.Party("/campgrounds")
	{
		cg.Get("/", campgrounds.Index)
		cg.Get("/new", campgrounds.New)
		cg.Post("/", campgrounds.Create)
		cg.Get("/{id}", campgrounds.Show)
		cg.Get("/{id}/edit", campgrounds.Edit)
		cg.Put("/{id}", campgrounds.Update)
		cg.Delete("/{id}", campgrounds.Delete)
		cg.Post("/{id}/reviews", reviews.Create)
		cg.Delete("/{id}/reviews/{reviewId}", reviews.Delete)
	}

	app.Build()
	return app
}

func postForm(app *iris.Application, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func get(app *iris.Application, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func validCampgroundForm() url.Values {
	return url.Values{
		"campground.title":       {"Pine Ridge"},
		"campground.price":       {"15"},
		"campground.image":       {"https://x/img.jpg"},
		"campground.location":    {"Colorado"},
		"campground.description": {"Quiet forest"},
	}
}

func TestCreateCampgroundRedirectsToShow(t *testing.T) {
	store := newFakeStore()
	app := buildTestApp(store)

	resp := postForm(app, "/campgrounds", validCampgroundForm())
	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", resp.Code, resp.Body.String())
	}
	location := resp.Header().Get("Location")
	if !strings.HasPrefix(location, "/campgrounds/") {
		t.Fatalf("expected redirect to /campgrounds/<id>, got %q", location)
	}

	id, err := primitive.ObjectIDFromHex(strings.TrimPrefix(location, "/campgrounds/"))
	if err != nil {
		t.Fatalf("redirect target is not an object id: %q", location)
	}
	c, ok := store.campgrounds[id]
	if !ok {
		t.Fatal("campground not persisted")
	}
	if c.Title != "Pine Ridge" || c.Price != 15 || c.Location != "Colorado" || c.Description != "Quiet forest" {
		t.Fatalf("persisted fields do not match input: %+v", c)
	}
	if len(c.Reviews) != 0 {
		t.Fatalf("expected empty review list, got %d entries", len(c.Reviews))
	}

	show := get(app, location)
	if show.Code != http.StatusOK {
		t.Fatalf("expected 200 on show, got %d", show.Code)
	}
	if !strings.Contains(show.Body.String(), "Pine Ridge") {
		t.Fatal("show page does not render the campground")
	}
}

func TestCreateCampgroundValidationRejects(t *testing.T) {
	store := newFakeStore()
	app := buildTestApp(store)

	form := validCampgroundForm()
	form.Set("campground.title", "")
	form.Set("campground.price", "cheap")

	resp := postForm(app, "/campgrounds", form)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, "Title is required") {
		t.Fatal("missing title message not rendered")
	}
	if !strings.Contains(body, "Price must be a number") {
		t.Fatal("price message not rendered")
	}
	if len(store.campgrounds) != 0 {
		t.Fatal("invalid campground was persisted")
	}
}

func TestShowUnknownCampgroundRedirects(t *testing.T) {
	app := buildTestApp(newFakeStore())

	resp := get(app, "/campgrounds/"+primitive.NewObjectID().Hex())
	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.Code)
	}
	if resp.Header().Get("Location") != "/campgrounds" {
		t.Fatalf("expected redirect to /campgrounds, got %q", resp.Header().Get("Location"))
	}
}

func TestShowMalformedIDRedirects(t *testing.T) {
	app := buildTestApp(newFakeStore())

	resp := get(app, "/campgrounds/not-an-id")
	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.Code)
	}
	if resp.Header().Get("Location") != "/campgrounds" {
		t.Fatalf("expected redirect to /campgrounds, got %q", resp.Header().Get("Location"))
	}
}

func TestUpdateCampgroundReplacesScalarFields(t *testing.T) {
	store := newFakeStore()
	app := buildTestApp(store)

	id, _ := store.Create(context.Background(), models.CampgroundFields{
		Title: "Old Name", Image: "https://x/old.jpg", Price: 5, Location: "Utah", Description: "Old",
	})
	store.campgrounds[id].Reviews = append(store.campgrounds[id].Reviews, primitive.NewObjectID())

	form := validCampgroundForm()
	resp := postForm(app, "/campgrounds/"+id.Hex()+"?_method=PUT", form)
	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", resp.Code, resp.Body.String())
	}
	if resp.Header().Get("Location") != "/campgrounds/"+id.Hex() {
		t.Fatalf("unexpected redirect %q", resp.Header().Get("Location"))
	}

	c := store.campgrounds[id]
	if c.Title != "Pine Ridge" || c.Location != "Colorado" {
		t.Fatalf("scalar fields not replaced: %+v", c)
	}
	if len(c.Reviews) != 1 {
		t.Fatal("review reference list was touched by update")
	}
}

func TestDeleteCampgroundCascades(t *testing.T) {
	store := newFakeStore()
	app := buildTestApp(store)

	id, _ := store.Create(context.Background(), models.CampgroundFields{
		Title: "Pine Ridge", Image: "https://x/img.jpg", Price: 15, Location: "Colorado", Description: "Quiet forest",
	})
	for i := 0; i < 3; i++ {
		if _, err := store.AddReview(context.Background(), id, models.ReviewFields{Body: "Great spot", Rating: 5, Author: "Alex"}); err != nil {
			t.Fatalf("seed review: %v", err)
		}
	}

	resp := postForm(app, "/campgrounds/"+id.Hex()+"?_method=DELETE", url.Values{})
	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.Code)
	}
	if resp.Header().Get("Location") != "/campgrounds" {
		t.Fatalf("unexpected redirect %q", resp.Header().Get("Location"))
	}
	if len(store.campgrounds) != 0 {
		t.Fatal("campground still present")
	}
	if len(store.reviews) != 0 {
		t.Fatalf("expected zero residual reviews, got %d", len(store.reviews))
	}
}

func TestDeleteDeletedCampgroundIsNotFound(t *testing.T) {
	store := newFakeStore()
	app := buildTestApp(store)

	id, _ := store.Create(context.Background(), models.CampgroundFields{
		Title: "Pine Ridge", Image: "https://x/img.jpg", Price: 15, Location: "Colorado", Description: "Quiet forest",
	})

	first := postForm(app, "/campgrounds/"+id.Hex()+"?_method=DELETE", url.Values{})
	if first.Code != http.StatusFound {
		t.Fatalf("expected 302 on first delete, got %d", first.Code)
	}

	second := postForm(app, "/campgrounds/"+id.Hex()+"?_method=DELETE", url.Values{})
	if second.Code != http.StatusFound {
		t.Fatalf("expected 302 on repeat delete, got %d", second.Code)
	}

	// Follow the redirect with the session cookie to read the flash.
	req := httptest.NewRequest(http.MethodGet, "/campgrounds", nil)
	for _, c := range second.Result().Cookies() {
		req.AddCookie(c)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if !strings.Contains(resp.Body.String(), "Campground not found!") {
		t.Fatal("repeat delete did not flash the not-found message")
	}
}

func TestUnmatchedRouteRenders404(t *testing.T) {
	app := buildTestApp(newFakeStore())

	resp := get(app, "/no/such/page")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Page Not Found") {
		t.Fatal("404 page not rendered")
	}
}
