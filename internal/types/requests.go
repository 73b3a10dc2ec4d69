package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	msgRequired = "This field is required."
	msgBlank    = "This field may not be blank."
)

var maxPrice = decimal.RequireFromString("999.99")

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=5"`
	Name     string `json:"name" binding:"max=255"`
}

// UpdateUserRequest represents a partial update of the caller's account
type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	Password *string `json:"password" binding:"omitempty,min=5"`
}

// UserResponse is the public representation of a user
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AttributeRequest is the body for creating or renaming a tag or ingredient
type AttributeRequest struct {
	Name string `json:"name" binding:"max=255"`
}

// Validate rejects blank names.
func (r *AttributeRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return NewValidationError("name", msgBlank)
	}
	return nil
}

// RecipeRequest is the body of recipe create, full update and partial
// update. A nil field was absent from the payload.
type RecipeRequest struct {
	Title       *string          `json:"title" binding:"omitempty,max=255"`
	TimeMinutes *int             `json:"time_minutes" binding:"omitempty,min=0"`
	Price       *decimal.Decimal `json:"price"`
	Link        *string          `json:"link" binding:"omitempty,url,max=255"`
	Tags        *[]uint          `json:"tags"`
	Ingredients *[]uint          `json:"ingredients"`
}

// Validate checks presence and value rules the binding tags cannot express.
// With partial set only supplied fields are checked.
func (r *RecipeRequest) Validate(partial bool) error {
	fields := FieldErrors{}

	if !partial {
		if r.Title == nil {
			fields.Add("title", msgRequired)
		}
		if r.TimeMinutes == nil {
			fields.Add("time_minutes", msgRequired)
		}
		if r.Price == nil {
			fields.Add("price", msgRequired)
		}
	}

	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		fields.Add("title", msgBlank)
	}

	if r.Price != nil {
		switch {
		case r.Price.IsNegative():
			fields.Add("price", "Ensure this value is greater than or equal to 0.")
		case r.Price.GreaterThan(maxPrice):
			fields.Add("price", "Ensure that there are no more than 5 digits in total.")
		case r.Price.Exponent() < -2 && !r.Price.Equal(r.Price.Round(2)):
			fields.Add("price", "Ensure that there are no more than 2 decimal places.")
		}
	}

	return fields.Err()
}
