// file: internals/helpers/pgerror.go
package helper

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	PgUniqueViolation     = "23505"
	PgForeignKeyViolation = "23503"
	PgCheckViolation      = "23514"
)

// PgErrorInfo: kode SQLSTATE + nama constraint (kalau ada) dari pgx / lib/pq.
func PgErrorInfo(err error) (code string, constraint string, ok bool) {
	if err == nil {
		return "", "", false
	}
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, pgxErr.ConstraintName, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, true
	}
	return "", "", false
}

// IsUniqueViolation: cek 23505, fallback string (driver yang membungkus error).
func IsUniqueViolation(err error) bool {
	if code, _, ok := PgErrorInfo(err); ok {
		return code == PgUniqueViolation
	}
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "23505")
}

// IsConstraint: unique violation pada constraint/index tertentu.
func IsConstraint(err error, name string) bool {
	if code, constraint, ok := PgErrorInfo(err); ok {
		return code == PgUniqueViolation && constraint == name
	}
	return err != nil && strings.Contains(err.Error(), name)
}

// MapPGError → status HTTP + pesan yang aman ditampilkan.
func MapPGError(err error) (int, string) {
	code, _, ok := PgErrorInfo(err)
	if !ok {
		if IsUniqueViolation(err) {
			return http.StatusConflict, "Data duplikat (unique violation)."
		}
		return http.StatusInternalServerError, "Terjadi kesalahan pada database."
	}
	switch code {
	case PgUniqueViolation:
		return http.StatusConflict, "Data duplikat (unique violation)."
	case PgForeignKeyViolation:
		return http.StatusBadRequest, "Referensi tidak ditemukan (FK violation)."
	case PgCheckViolation:
		return http.StatusBadRequest, "Data melanggar constraint."
	default:
		return http.StatusInternalServerError, "Terjadi kesalahan pada database."
	}
}
