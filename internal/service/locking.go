package service

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate adds a pessimistic row lock on postgres. The sqlite dialect
// used in tests rejects FOR UPDATE syntax but serializes writers with its
// single-writer lock, so the check-then-act guarantees hold there too.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
