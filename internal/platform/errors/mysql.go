package errors

// MySQL-specific helpers mirroring pg.go for the go-sql-driver error type

import (
	stderrs "errors"

	"github.com/go-sql-driver/mysql"
)

// Server error numbers the warehouse writer cares about
const (
	myErrDupEntry        = 1062
	myErrBadNull         = 1048
	myErrNoSuchTable     = 1146
	myErrBadField        = 1054
	myErrDataTooLong     = 1406
	myErrOutOfRange      = 1264
	myErrTruncatedValue  = 1366
	myErrLockWaitTimeout = 1205
	myErrLockDeadlock    = 1213
)

// ExtractMySQLError returns (*mysql.MySQLError, true) if the root cause is a MySQLError
func ExtractMySQLError(err error) (*mysql.MySQLError, bool) {
	var myErr *mysql.MySQLError
	if stderrs.As(Root(err), &myErr) {
		return myErr, true
	}
	return nil, false
}

// IsMySQLNumber reports whether err is a MySQL server error with the given number
func IsMySQLNumber(err error, n uint16) bool {
	myErr, ok := ExtractMySQLError(err)
	return ok && myErr.Number == n
}

// MySQLErrorCode maps a MySQL error to an ErrorCode with an ok flag
func MySQLErrorCode(err error) (ErrorCode, bool) {
	myErr, ok := ExtractMySQLError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	switch myErr.Number {
	case myErrDupEntry:
		return ErrorCodeDuplicateKey, true
	case myErrBadNull, myErrDataTooLong, myErrOutOfRange, myErrTruncatedValue:
		return ErrorCodeValidation, true
	case myErrNoSuchTable, myErrBadField:
		return ErrorCodeConfig, true
	}
	return ErrorCodeDB, true
}

// IsMySQLRetryable reports whether a MySQL error is a lock wait timeout or deadlock
func IsMySQLRetryable(err error) bool {
	return IsMySQLNumber(err, myErrLockDeadlock) || IsMySQLNumber(err, myErrLockWaitTimeout)
}

// DBCode classifies a driver error from either warehouse dialect, defaulting to ErrorCodeDB
func DBCode(err error) ErrorCode {
	if code, ok := DBErrorCode(err); ok {
		return code
	}
	if code, ok := MySQLErrorCode(err); ok {
		return code
	}
	return ErrorCodeDB
}

// FromDB wraps a driver error with its mapped code and attaches the Postgres column when known.
// If err is nil, returns nil
func FromDB(err error, msg string) error {
	if err == nil {
		return nil
	}
	return AttachFieldFromPg(Wrap(err, DBCode(err), msg))
}
