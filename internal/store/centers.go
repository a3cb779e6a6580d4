package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vaxslots/pkg/types"
)

// ListCenters returns all centers ordered by id.
func (s *Store) ListCenters(ctx context.Context) ([]types.Center, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, location, dosageDetails, timings, availableSlots FROM vaccination_centers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	centers := []types.Center{}
	for rows.Next() {
		var c types.Center
		if err := rows.Scan(&c.ID, &c.Name, &c.Location, &c.DosageDetails, &c.Timings, &c.AvailableSlots); err != nil {
			return nil, err
		}
		centers = append(centers, c)
	}
	return centers, rows.Err()
}

// GetCenter returns a single center or ErrNotFound.
func (s *Store) GetCenter(ctx context.Context, id int64) (types.Center, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, location, dosageDetails, timings, availableSlots FROM vaccination_centers WHERE id=?`, id)
	var c types.Center
	switch err := row.Scan(&c.ID, &c.Name, &c.Location, &c.DosageDetails, &c.Timings, &c.AvailableSlots); {
	case err == nil:
		return c, nil
	case errors.Is(err, sql.ErrNoRows):
		return types.Center{}, ErrNotFound
	default:
		return types.Center{}, err
	}
}

// InsertCenter stores a new center and returns it with its assigned id.
func (s *Store) InsertCenter(ctx context.Context, c types.Center) (types.Center, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO vaccination_centers(name, location, dosageDetails, timings, availableSlots) VALUES(?,?,?,?,?)`,
		c.Name, c.Location, c.DosageDetails, c.Timings, c.AvailableSlots)
	if err != nil {
		return types.Center{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return types.Center{}, err
	}
	c.ID = id
	return c, nil
}

// UpdateCenter rewrites the descriptive fields of a center. The slot counter
// is left untouched.
func (s *Store) UpdateCenter(ctx context.Context, c types.Center) error {
	res, err := s.db.ExecContext(ctx, `UPDATE vaccination_centers SET name=?, location=?, dosageDetails=?, timings=? WHERE id=?`,
		c.Name, c.Location, c.DosageDetails, c.Timings, c.ID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// DeleteCenter removes a center.
func (s *Store) DeleteCenter(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM vaccination_centers WHERE id=?`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// DecrementSlot takes one slot from the center in a single statement and
// returns the remaining count. It fails with ErrNoSlots when the counter is
// zero and ErrNotFound when the id does not exist.
func (s *Store) DecrementSlot(ctx context.Context, id int64) (int, error) {
	var remaining int
	err := s.db.QueryRowContext(ctx, `UPDATE vaccination_centers SET availableSlots = availableSlots - 1
		WHERE id = ? AND availableSlots > 0 RETURNING availableSlots`, id).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	if _, err := s.GetCenter(ctx, id); err != nil {
		return 0, err
	}
	return 0, ErrNoSlots
}

// CountCenters returns the number of stored centers.
func (s *Store) CountCenters(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vaccination_centers`).Scan(&n)
	return n, err
}

// SeedCenters inserts cs in one transaction, but only when the table is
// empty. It returns how many rows were written; a failed insert rolls back
// every row before it.
func (s *Store) SeedCenters(ctx context.Context, cs []types.Center) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()
	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM vaccination_centers`).Scan(&n); err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	for _, c := range cs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO vaccination_centers(name, location, dosageDetails, timings, availableSlots) VALUES(?,?,?,?,?)`,
			c.Name, c.Location, c.DosageDetails, c.Timings, c.AvailableSlots); err != nil {
			return 0, fmt.Errorf("insert %q: %w", c.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(cs), nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
