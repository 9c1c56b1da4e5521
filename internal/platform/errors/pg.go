package errors

// Postgres helpers for mapping pgx errors to project error codes

import (
	stderrs "errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes matched exactly, checked before the class table
var pgStates = map[string]ErrorCode{
	"42P01": ErrorCodeUnavailable, // undefined_table, schema not applied yet
	"25006": ErrorCodeUnavailable, // read_only_sql_transaction, replica or failover
}

// SQLSTATE classes, the first two characters of the code
var pgClasses = map[string]ErrorCode{
	"08": ErrorCodeUnavailable, // connection exception
	"53": ErrorCodeUnavailable, // insufficient resources
	"57": ErrorCodeUnavailable, // operator intervention, includes cannot_connect_now
	"23": ErrorCodeValidation,  // integrity constraint violation
	"22": ErrorCodeInvalidArgument,
}

// DBErrorCode maps a Postgres or pgconn error to an ErrorCode
// !ok means err came from neither the server nor the connection layer
func DBErrorCode(err error) (ErrorCode, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		if c, ok := pgStates[pgErr.Code]; ok {
			return c, true
		}
		if len(pgErr.Code) >= 2 {
			if c, ok := pgClasses[pgErr.Code[:2]]; ok {
				return c, true
			}
		}
		return ErrorCodeDB, true
	}
	var connErr *pgconn.ConnectError
	if stderrs.As(err, &connErr) || pgconn.Timeout(err) {
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeUnknown, false
}

// FromPostgres wraps a pg error with a mapped ErrorCode and message
// anything unmapped is ErrorCodeDB, nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}
