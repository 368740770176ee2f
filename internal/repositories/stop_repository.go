package repositories

import (
	"database/sql"
	"errors"

	intconfig "campusshuttle/internal/config"
	intdb "campusshuttle/internal/db"
	"campusshuttle/internal/domain"
	"campusshuttle/internal/domain/models"

	"github.com/google/uuid"
)

type StopRepository struct {
	DB *sql.DB
}

func (r StopRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r StopRepository) ListStops(onlyActive bool) ([]models.Stop, error) {
	query := `SELECT id, name, latitude, longitude, COALESCE(address,''), is_active, created_at FROM stops`
	if onlyActive {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY name`

	rows, err := r.db().Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Stop{}
	for rows.Next() {
		var s models.Stop
		if err := rows.Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude, &s.Address, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r StopRepository) GetStop(id string) (models.Stop, error) {
	var s models.Stop
	err := r.db().QueryRow(
		`SELECT id, name, latitude, longitude, COALESCE(address,''), is_active, created_at FROM stops WHERE id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude, &s.Address, &s.IsActive, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Stop{}, domain.NotFoundError{Resource: "stop"}
	}
	return s, err
}

func (r StopRepository) CreateStop(s models.Stop) (string, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := r.db().Exec(
		`INSERT INTO stops (id, name, latitude, longitude, address, is_active) VALUES (?,?,?,?,?,?)`,
		s.ID, s.Name, s.Latitude, s.Longitude, intdb.NullIfEmpty(s.Address), s.IsActive,
	)
	return s.ID, err
}

func (r StopRepository) UpdateStop(s models.Stop) error {
	res, err := r.db().Exec(
		`UPDATE stops SET name=?, latitude=?, longitude=?, address=? WHERE id=?`,
		s.Name, s.Latitude, s.Longitude, intdb.NullIfEmpty(s.Address), s.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "stop"}
	}
	return nil
}

// SetActive flips the active flag. Stops are deactivated, never deleted, so
// historical bookings keep resolving.
func (r StopRepository) SetActive(id string, active bool) error {
	res, err := r.db().Exec(`UPDATE stops SET is_active=? WHERE id=?`, active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "stop"}
	}
	return nil
}
