package repository

import (
	"context"

	"gorm.io/gorm"
)

// inTx runs fn in a transaction on db. Any error rolls the transaction back;
// errors that are not already domain errors come back as STORAGE_ERROR.
func inTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return storageErr(db.WithContext(ctx).Transaction(fn))
}
