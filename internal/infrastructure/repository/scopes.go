package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnerScope returns a GORM scope that restricts a query to one account's rows.
// A nil owner matches nothing, so a missing identity can never widen a query.
func OwnerScope(ownerID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if ownerID == uuid.Nil {
			return db.Where("1 = 0")
		}
		return db.Where("owner_id = ?", ownerID)
	}
}

// ProductsInOrder preloads receipt products in the order they were recorded.
func ProductsInOrder(db *gorm.DB) *gorm.DB {
	return db.Preload("Products", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	})
}
