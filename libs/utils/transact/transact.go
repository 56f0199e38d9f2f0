package transact

import (
	"github.com/jinzhu/gorm"
)

// Transact runs fn inside a transaction: rollback on error or panic, commit
// otherwise. A failing commit is the error that comes back.
func Transact(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}
