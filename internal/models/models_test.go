package models

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "models.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(All()...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func TestUserBeforeCreateAssignsID(t *testing.T) {
	db := setupTestDB(t)
	user := &User{Email: "test@example.com", PasswordHash: "x", IsActive: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if user.ID == uuid.Nil {
		t.Error("User ID should be set after creation")
	}

	fixed := uuid.New()
	other := &User{ID: fixed, Email: "other@example.com", PasswordHash: "x", IsActive: true}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if other.ID != fixed {
		t.Error("Explicit user ID should be kept")
	}
}

func TestUserPassword(t *testing.T) {
	user := &User{}
	if user.CheckPassword("") {
		t.Error("User without a password hash should never match")
	}
	if err := user.SetPassword("testpass123"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if user.PasswordHash == "testpass123" {
		t.Error("Password should be hashed")
	}
	if !user.CheckPassword("testpass123") {
		t.Error("Correct password should match")
	}
	if user.CheckPassword("wrong") {
		t.Error("Wrong password should not match")
	}
}

func TestRecipeAssociationIDs(t *testing.T) {
	db := setupTestDB(t)
	user := &User{Email: "cook@example.com", PasswordHash: "x", IsActive: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	tag := Tag{Attribute: Attribute{Name: "Vegan", UserID: user.ID}}
	ingredient := Ingredient{Attribute: Attribute{Name: "Kale", UserID: user.ID}}
	recipe := &Recipe{
		UserID:      user.ID,
		Title:       "Steak and mushroom sauce",
		TimeMinutes: 5,
		Tags:        []Tag{tag},
		Ingredients: []Ingredient{ingredient},
	}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("Failed to create recipe: %v", err)
	}

	var loaded Recipe
	if err := db.Preload("Tags").Preload("Ingredients").First(&loaded, recipe.ID).Error; err != nil {
		t.Fatalf("Failed to load recipe: %v", err)
	}
	if ids := loaded.TagIDs(); len(ids) != 1 || ids[0] != recipe.Tags[0].ID {
		t.Errorf("Unexpected tag ids %v", ids)
	}
	if ids := loaded.IngredientIDs(); len(ids) != 1 || ids[0] != recipe.Ingredients[0].ID {
		t.Errorf("Unexpected ingredient ids %v", ids)
	}
}

func TestAssignmentTables(t *testing.T) {
	tests := []struct {
		name   string
		table  string
		column string
	}{
		{"tag", (&Tag{}).AssignmentTable(), (&Tag{}).AssignmentColumn()},
		{"ingredient", (&Ingredient{}).AssignmentTable(), (&Ingredient{}).AssignmentColumn()},
	}
	want := map[string][2]string{
		"tag":        {"recipe_tags", "tag_id"},
		"ingredient": {"recipe_ingredients", "ingredient_id"},
	}
	for _, tt := range tests {
		if got := [2]string{tt.table, tt.column}; got != want[tt.name] {
			t.Errorf("%s: got %v, want %v", tt.name, got, want[tt.name])
		}
	}
}
