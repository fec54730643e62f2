package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base carries the GORM handle shared by the domain repositories and keeps
// the context/transaction plumbing in one place.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx when one is provided.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Rebind returns a Base running on tx, or the receiver when tx is nil.
// Domain repositories build their WithTx variants on top of it.
func (b Base) Rebind(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}
