package models

import (
	"time"

	"github.com/google/uuid"
)

// Attribute holds the columns shared by user-owned recipe attributes.
type Attribute struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Base gives generic code access to the shared columns.
func (a *Attribute) Base() *Attribute {
	return a
}

// Tag is a user-owned label attached to recipes.
type Tag struct {
	Attribute
	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Tag) TableName() string {
	return "tags"
}

// AssignmentTable names the recipe join table referencing tags.
func (*Tag) AssignmentTable() string {
	return "recipe_tags"
}

// AssignmentColumn names the join table column holding the tag id.
func (*Tag) AssignmentColumn() string {
	return "tag_id"
}

// Ingredient is a user-owned ingredient attached to recipes.
type Ingredient struct {
	Attribute
	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

func (*Ingredient) AssignmentTable() string {
	return "recipe_ingredients"
}

func (*Ingredient) AssignmentColumn() string {
	return "ingredient_id"
}

// AttributeModel is satisfied by pointers to Tag and Ingredient, letting
// generic code create, scope and join them without knowing which one it has.
type AttributeModel[T any] interface {
	*T
	Base() *Attribute
	AssignmentTable() string
	AssignmentColumn() string
}
