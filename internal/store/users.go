package store

import (
	"context"
	"database/sql"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"vaxslots/pkg/types"
)

// CreateUser registers an account. The password is stored as a bcrypt hash.
func (s *Store) CreateUser(ctx context.Context, name, email, password string) (types.InsertResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.InsertResult{}, err
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO signup(name, email, password) VALUES(?,?,?)`, name, email, string(hash))
	if err != nil {
		if isUniqueViolation(err) {
			return types.InsertResult{}, ErrDuplicateEmail
		}
		return types.InsertResult{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return types.InsertResult{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return types.InsertResult{}, err
	}
	return types.InsertResult{AffectedRows: n, InsertID: id}, nil
}

// CheckCredentials reports whether email and password match a stored account.
// Unknown emails and wrong passwords both yield false with a nil error.
func (s *Store) CheckCredentials(ctx context.Context, email, password string) (bool, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, `SELECT password FROM signup WHERE email=?`, email).Scan(&hash)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
