package service

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScopeOwner restricts a query to rows owned by owner.
func ScopeOwner(owner uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", owner)
	}
}

// OrderByNameDesc orders attributes by name, newest id first on ties.
func OrderByNameDesc(db *gorm.DB) *gorm.DB {
	return db.Order("name DESC").Order("id DESC")
}

// OrderByIDDesc orders rows newest first.
func OrderByIDDesc(db *gorm.DB) *gorm.DB {
	return db.Order("id DESC")
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
