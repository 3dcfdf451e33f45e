package database

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// MySQL server error numbers
const (
	mysqlDupEntry          = 1062
	mysqlRowIsReferenced   = 1451
	mysqlNoReferencedRow   = 1452
	mysqlRowIsReferenced2  = 1217
	mysqlNoReferencedRow2  = 1216
	mysqlCheckConstraintNo = 3819
)

// IsUniqueViolation reports whether err was caused by a UNIQUE or PRIMARY KEY constraint.
func IsUniqueViolation(err error) bool {
	return matchConstraint(err,
		[]int{sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY},
		[]uint16{mysqlDupEntry},
		"UNIQUE constraint failed")
}

// IsForeignKeyViolation reports whether err was caused by a missing parent row
// or by deleting a row that is still referenced.
func IsForeignKeyViolation(err error) bool {
	return matchConstraint(err,
		[]int{sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY},
		[]uint16{mysqlNoReferencedRow, mysqlNoReferencedRow2, mysqlRowIsReferenced, mysqlRowIsReferenced2},
		"FOREIGN KEY constraint failed")
}

// IsCheckViolation reports whether err was caused by a CHECK constraint.
func IsCheckViolation(err error) bool {
	return matchConstraint(err,
		[]int{sqlite3.SQLITE_CONSTRAINT_CHECK},
		[]uint16{mysqlCheckConstraintNo},
		"CHECK constraint failed")
}

func matchConstraint(err error, sqliteCodes []int, mysqlNumbers []uint16, sqliteMsg string) bool {
	if err == nil {
		return false
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		for _, code := range sqliteCodes {
			if se.Code() == code {
				return true
			}
		}
		// Without extended result codes only the primary code is reported.
		if se.Code() == sqlite3.SQLITE_CONSTRAINT {
			return strings.Contains(se.Error(), sqliteMsg)
		}
		return false
	}

	var me *mysql.MySQLError
	if errors.As(err, &me) {
		for _, n := range mysqlNumbers {
			if me.Number == n {
				return true
			}
		}
		return false
	}

	return false
}
