package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/types"
)

// ListAttributesOptions controls attribute listing.
type ListAttributesOptions struct {
	// AssignedOnly limits the result to attributes used by at least one recipe.
	AssignedOnly bool
}

// AttributeService manages owner-scoped recipe attributes (tags and
// ingredients). field is the recipe field name used in validation errors
// raised by Resolve.
type AttributeService[T any, PT models.AttributeModel[T]] struct {
	db    *gorm.DB
	field string
}

// NewAttributeService creates a service for attribute type T.
func NewAttributeService[T any, PT models.AttributeModel[T]](db *gorm.DB, field string) *AttributeService[T, PT] {
	return &AttributeService[T, PT]{db: db, field: field}
}

// WithTx returns a copy of the service bound to tx.
func (s *AttributeService[T, PT]) WithTx(tx *gorm.DB) *AttributeService[T, PT] {
	return &AttributeService[T, PT]{db: tx, field: s.field}
}

func (s *AttributeService[T, PT]) model() PT {
	return PT(new(T))
}

// List returns the owner's attributes ordered by name descending.
func (s *AttributeService[T, PT]) List(ctx context.Context, owner uuid.UUID, opts ListAttributesOptions) ([]T, error) {
	m := s.model()
	q := s.db.WithContext(ctx).Model(m).Scopes(ScopeOwner(owner), OrderByNameDesc)
	if opts.AssignedOnly {
		assigned := s.db.Table(m.AssignmentTable()).Select(m.AssignmentColumn())
		q = q.Where("id IN (?)", assigned)
	}

	items := []T{}
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.field, err)
	}
	return items, nil
}

// Get returns one of the owner's attributes.
func (s *AttributeService[T, PT]) Get(ctx context.Context, owner uuid.UUID, id uint) (PT, error) {
	item := s.model()
	err := s.db.WithContext(ctx).Scopes(ScopeOwner(owner)).First(item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

// Create stores a new attribute for owner.
func (s *AttributeService[T, PT]) Create(ctx context.Context, owner uuid.UUID, name string) (PT, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	item := s.model()
	base := item.Base()
	base.Name = name
	base.UserID = owner
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.field, err)
	}
	return item, nil
}

// Update renames one of the owner's attributes.
func (s *AttributeService[T, PT]) Update(ctx context.Context, owner uuid.UUID, id uint, name string) (PT, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	item, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(item).Update("name", name).Error; err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", s.field, err)
	}
	return item, nil
}

// Delete removes one of the owner's attributes and its recipe assignments.
func (s *AttributeService[T, PT]) Delete(ctx context.Context, owner uuid.UUID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.WithTx(tx).Get(ctx, owner, id)
		if err != nil {
			return err
		}
		stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", item.AssignmentTable(), item.AssignmentColumn())
		if err := tx.Exec(stmt, id).Error; err != nil {
			return err
		}
		return tx.Delete(item).Error
	})
}

// Resolve loads the owner's attributes with the given ids. Unknown ids and
// ids owned by someone else are reported as a validation error on the
// recipe field.
func (s *AttributeService[T, PT]) Resolve(ctx context.Context, owner uuid.UUID, ids []uint) ([]T, error) {
	ids = uniqueIDs(ids)
	items := []T{}
	if len(ids) == 0 {
		return items, nil
	}

	err := s.db.WithContext(ctx).Scopes(ScopeOwner(owner)).Where("id IN ?", ids).Find(&items).Error
	if err != nil {
		return nil, err
	}
	if len(items) == len(ids) {
		return items, nil
	}

	found := make(map[uint]struct{}, len(items))
	for i := range items {
		found[PT(&items[i]).Base().ID] = struct{}{}
	}
	fields := types.FieldErrors{}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			fields.Add(s.field, fmt.Sprintf("Invalid pk %q - object does not exist.", fmt.Sprint(id)))
		}
	}
	return nil, fields.Err()
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", types.NewValidationError("name", "This field may not be blank.")
	}
	if len(name) > 255 {
		return "", types.NewValidationError("name", "Ensure this field has no more than 255 characters.")
	}
	return name, nil
}
