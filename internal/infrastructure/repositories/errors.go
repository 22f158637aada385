package repositories

import (
	"errors"

	"github.com/mattn/go-sqlite3"
	"github.com/you/healthrecords/domain"
	"gorm.io/gorm"
)

// translateError maps GORM errors onto domain error kinds. It relies on the
// connection being opened with gorm.Config.TranslateError so driver-specific
// constraint violations arrive as gorm.ErrDuplicatedKey / ErrForeignKeyViolated.
// SQLite reports ON DELETE RESTRICT as a trigger constraint, which its GORM
// dialector leaves untranslated. Anything else is returned unchanged.
func translateError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrDuplicateResource
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.ErrUserInUse
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey, sqlite3.ErrConstraintTrigger:
			return domain.ErrUserInUse
		}
	}
	return err
}
