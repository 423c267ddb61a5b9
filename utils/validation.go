package utils

import (
	"strconv"
	"strings"

	"campgrounds-server/models"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

// ValidationError aggregates every violated field message. Error() joins
// them comma-separated, one message per field, in declaration order.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

// CampgroundSchema declares the validation rules for campground input.
// Numeric fields are pointers so that "missing" and "zero" stay distinct.
type CampgroundSchema struct {
	Title       string   `validate:"required"`
	Price       *float64 `validate:"required,gte=0"`
	Image       string   `validate:"required,url"`
	Location    string   `validate:"required"`
	Description string   `validate:"required"`
}

// ReviewSchema declares the validation rules for review input.
type ReviewSchema struct {
	Body   string `validate:"required"`
	Rating *int   `validate:"required,min=1,max=5"`
	Author string `validate:"required"`
}

var campgroundFieldOrder = []string{"Title", "Price", "Image", "Location", "Description"}

var campgroundMessages = map[string]string{
	"Title.required":       "Title is required",
	"Price.required":       "Price is required",
	"Price.gte":            "Price must be greater than or equal to 0",
	"Image.required":       "Image URL is required",
	"Image.url":            "Image URL must be a valid URL",
	"Location.required":    "Location is required",
	"Description.required": "Description is required",
}

var reviewFieldOrder = []string{"Body", "Rating", "Author"}

var reviewMessages = map[string]string{
	"Body.required":   "Review text is required",
	"Rating.required": "Rating must be a number",
	"Rating.min":      "Rating must be at least 1",
	"Rating.max":      "Rating cannot exceed 5",
	"Author.required": "Author name is required",
}

// CampgroundInput carries the raw form values before validation.
type CampgroundInput struct {
	Title       string
	Price       string
	Image       string
	Location    string
	Description string
}

// ReviewInput carries the raw form values before validation.
type ReviewInput struct {
	Body   string
	Rating string
	Author string
}

// ReadCampgroundForm extracts the campground.* form fields and validates
// them, returning the normalized fields or a ValidationError.
func ReadCampgroundForm(ctx iris.Context, v *validator.Validate) (models.CampgroundFields, error) {
	return ValidateCampground(v, CampgroundInput{
		Title:       ctx.FormValue("campground.title"),
		Price:       ctx.FormValue("campground.price"),
		Image:       ctx.FormValue("campground.image"),
		Location:    ctx.FormValue("campground.location"),
		Description: ctx.FormValue("campground.description"),
	})
}

// ReadReviewForm extracts the review.* form fields and validates them.
func ReadReviewForm(ctx iris.Context, v *validator.Validate) (models.ReviewFields, error) {
	return ValidateReview(v, ReviewInput{
		Body:   ctx.FormValue("review.body"),
		Rating: ctx.FormValue("review.rating"),
		Author: ctx.FormValue("review.author"),
	})
}

func ValidateCampground(v *validator.Validate, in CampgroundInput) (models.CampgroundFields, error) {
	schema := CampgroundSchema{
		Title:       strings.TrimSpace(in.Title),
		Image:       strings.TrimSpace(in.Image),
		Location:    strings.TrimSpace(in.Location),
		Description: strings.TrimSpace(in.Description),
	}
	parse := map[string]string{}
	if raw := strings.TrimSpace(in.Price); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			parse["Price"] = "Price must be a number"
		} else {
			schema.Price = &price
		}
	}
	if msgs := collectMessages(v.Struct(schema), campgroundMessages, parse, campgroundFieldOrder); len(msgs) > 0 {
		return models.CampgroundFields{}, &ValidationError{Messages: msgs}
	}
	return models.CampgroundFields{
		Title:       schema.Title,
		Image:       schema.Image,
		Price:       *schema.Price,
		Location:    schema.Location,
		Description: schema.Description,
	}, nil
}

func ValidateReview(v *validator.Validate, in ReviewInput) (models.ReviewFields, error) {
	schema := ReviewSchema{
		Body:   strings.TrimSpace(in.Body),
		Author: strings.TrimSpace(in.Author),
	}
	parse := map[string]string{}
	if raw := strings.TrimSpace(in.Rating); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil {
			parse["Rating"] = "Rating must be a number"
		} else {
			schema.Rating = &rating
		}
	}
	if msgs := collectMessages(v.Struct(schema), reviewMessages, parse, reviewFieldOrder); len(msgs) > 0 {
		return models.ReviewFields{}, &ValidationError{Messages: msgs}
	}
	return models.ReviewFields{
		Body:   schema.Body,
		Rating: *schema.Rating,
		Author: schema.Author,
	}, nil
}

// collectMessages translates validator failures into the per-field
// messages, letting a bind-stage parse failure override the field's
// validator message, and orders the result by field declaration.
func collectMessages(err error, messages, parse map[string]string, order []string) []string {
	byField := map[string]string{}
	if err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			if msg, ok := messages[fe.StructField()+"."+fe.Tag()]; ok {
				byField[fe.StructField()] = msg
			}
		}
	}
	for field, msg := range parse {
		byField[field] = msg
	}
	var out []string
	for _, field := range order {
		if msg, ok := byField[field]; ok {
			out = append(out, msg)
		}
	}
	return out
}
