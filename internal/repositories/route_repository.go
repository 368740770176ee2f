package repositories

import (
	"database/sql"
	"errors"

	intconfig "campusshuttle/internal/config"
	"campusshuttle/internal/domain"
	"campusshuttle/internal/domain/models"

	"github.com/google/uuid"
)

type RouteRepository struct {
	DB *sql.DB
}

func (r RouteRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r RouteRepository) ListRoutes(onlyActive bool) ([]models.Route, error) {
	query := `SELECT id, name, color, base_fare, estimated_duration, is_active, created_at FROM routes`
	if onlyActive {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY name`

	rows, err := r.db().Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Route{}
	for rows.Next() {
		var rt models.Route
		if err := rows.Scan(&rt.ID, &rt.Name, &rt.Color, &rt.BaseFare, &rt.EstimatedDuration, &rt.IsActive, &rt.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// GetRoute loads a route with its stop sequence, operating hours and peak
// windows.
func (r RouteRepository) GetRoute(id string) (models.Route, error) {
	var rt models.Route
	err := r.db().QueryRow(
		`SELECT id, name, color, base_fare, estimated_duration, is_active, created_at FROM routes WHERE id = ?`, id,
	).Scan(&rt.ID, &rt.Name, &rt.Color, &rt.BaseFare, &rt.EstimatedDuration, &rt.IsActive, &rt.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Route{}, domain.NotFoundError{Resource: "route"}
	}
	if err != nil {
		return models.Route{}, err
	}

	if rt.Stops, err = r.routeStops(id); err != nil {
		return models.Route{}, err
	}
	if rt.OperatingHours, err = r.operatingHours(id); err != nil {
		return models.Route{}, err
	}
	if rt.PeakHours, err = r.peakHours(id); err != nil {
		return models.Route{}, err
	}
	return rt, nil
}

// ListRoutesWithDetails loads every active route fully populated. The
// planner builds its network from this snapshot.
func (r RouteRepository) ListRoutesWithDetails() ([]models.Route, error) {
	routes, err := r.ListRoutes(true)
	if err != nil {
		return nil, err
	}
	for i := range routes {
		if routes[i].Stops, err = r.routeStops(routes[i].ID); err != nil {
			return nil, err
		}
		if routes[i].OperatingHours, err = r.operatingHours(routes[i].ID); err != nil {
			return nil, err
		}
		if routes[i].PeakHours, err = r.peakHours(routes[i].ID); err != nil {
			return nil, err
		}
	}
	return routes, nil
}

func (r RouteRepository) routeStops(routeID string) ([]models.RouteStop, error) {
	rows, err := r.db().Query(
		`SELECT stop_id, stop_order, travel_time_from_previous, distance_from_previous
		 FROM route_stops WHERE route_id = ? ORDER BY stop_order`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.RouteStop{}
	for rows.Next() {
		var rs models.RouteStop
		if err := rows.Scan(&rs.StopID, &rs.StopOrder, &rs.TravelTimeFromPrev, &rs.DistanceFromPrev); err != nil {
			return nil, err
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

func (r RouteRepository) operatingHours(routeID string) ([]models.OperatingHour, error) {
	rows, err := r.db().Query(
		`SELECT day_of_week, start_time, end_time FROM route_operating_hours WHERE route_id = ?`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.OperatingHour{}
	for rows.Next() {
		var oh models.OperatingHour
		if err := rows.Scan(&oh.DayOfWeek, &oh.StartTime, &oh.EndTime); err != nil {
			return nil, err
		}
		out = append(out, oh)
	}
	return out, rows.Err()
}

func (r RouteRepository) peakHours(routeID string) ([]models.PeakHour, error) {
	rows, err := r.db().Query(
		`SELECT name, start_time, end_time, multiplier FROM route_peak_hours WHERE route_id = ?`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.PeakHour{}
	for rows.Next() {
		var ph models.PeakHour
		if err := rows.Scan(&ph.Name, &ph.StartTime, &ph.EndTime, &ph.Multiplier); err != nil {
			return nil, err
		}
		out = append(out, ph)
	}
	return out, rows.Err()
}

// CreateRoute inserts the route and its child rows in one transaction.
func (r RouteRepository) CreateRoute(rt models.Route) (string, error) {
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}

	tx, err := r.db().Begin()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO routes (id, name, color, base_fare, estimated_duration, is_active) VALUES (?,?,?,?,?,?)`,
		rt.ID, rt.Name, rt.Color, rt.BaseFare, rt.EstimatedDuration, rt.IsActive,
	); err != nil {
		return "", err
	}
	for _, rs := range rt.Stops {
		if _, err := tx.Exec(
			`INSERT INTO route_stops (id, route_id, stop_id, stop_order, travel_time_from_previous, distance_from_previous)
			 VALUES (?,?,?,?,?,?)`,
			uuid.NewString(), rt.ID, rs.StopID, rs.StopOrder, rs.TravelTimeFromPrev, rs.DistanceFromPrev,
		); err != nil {
			return "", err
		}
	}
	for _, oh := range rt.OperatingHours {
		if _, err := tx.Exec(
			`INSERT INTO route_operating_hours (id, route_id, day_of_week, start_time, end_time) VALUES (?,?,?,?,?)`,
			uuid.NewString(), rt.ID, oh.DayOfWeek, oh.StartTime, oh.EndTime,
		); err != nil {
			return "", err
		}
	}
	for _, ph := range rt.PeakHours {
		if _, err := tx.Exec(
			`INSERT INTO route_peak_hours (id, route_id, name, start_time, end_time, multiplier) VALUES (?,?,?,?,?,?)`,
			uuid.NewString(), rt.ID, ph.Name, ph.StartTime, ph.EndTime, ph.Multiplier,
		); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return rt.ID, nil
}

func (r RouteRepository) SetActive(id string, active bool) error {
	res, err := r.db().Exec(`UPDATE routes SET is_active=? WHERE id=?`, active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "route"}
	}
	return nil
}
