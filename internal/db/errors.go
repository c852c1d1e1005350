package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

var (
	ErrMissingTable     = errors.New("db: table does not exist")
	ErrPermissionDenied = errors.New("db: permission denied")
	ErrNotFound         = errors.New("db: row not found")
	ErrUnknownTable     = errors.New("db: table is not countable")
)

// Postgres and PostgREST error codes with a dedicated meaning.
const (
	codeUndefinedTable   = "42P01"
	codeInsufficientPriv = "42501"
	codeRestMissingTable = "PGRST106"
	codeRestNoRows       = "PGRST116"
)

// Classify maps driver errors onto the package sentinels so callers can
// use errors.Is. Unrecognized errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrMissingTable) || errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrNotFound) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case codeUndefinedTable:
			return fmt.Errorf("%w: %s", ErrMissingTable, pqErr.Message)
		case codeInsufficientPriv:
			return fmt.Errorf("%w: %s", ErrPermissionDenied, pqErr.Message)
		}
		return err
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, codeRestMissingTable):
		return fmt.Errorf("%w: %v", ErrMissingTable, err)
	case strings.Contains(msg, codeRestNoRows):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

// UserMessage is the Arabic text shown for a database failure.
func UserMessage(err error) string {
	err = Classify(err)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingTable):
		return "جدول البيانات غير موجود. يرجى إنشاء الجداول المطلوبة أولاً"
	case errors.Is(err, ErrPermissionDenied):
		return "ليس لديك صلاحية للوصول إلى هذه البيانات"
	case errors.Is(err, ErrNotFound):
		return "العنصر المطلوب غير موجود"
	case isConnectionError(err):
		return "تعذر الاتصال بقاعدة البيانات. تحقق من اتصال الإنترنت"
	}
	return "حدث خطأ في تحميل البيانات"
}

func isConnectionError(err error) bool {
	if errors.Is(err, sql.ErrConnDone) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "i/o timeout")
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
