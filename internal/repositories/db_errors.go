package repositories

import (
	"errors"

	"github.com/go-sql-driver/mysql"

	"fixiBack/internal/models"
)

const (
	mysqlDuplicateEntry    = 1062
	mysqlForeignKeyFailure = 1452
)

func mysqlErrNumber(err error) uint16 {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number
	}
	return 0
}

// translateWriteError maps constraint failures to repository errors so the
// services can classify them. Any other error passes through untouched.
func translateWriteError(err error) error {
	switch mysqlErrNumber(err) {
	case mysqlForeignKeyFailure:
		return models.ErrBadReference
	}
	return err
}
