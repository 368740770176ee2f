package services

import (
	"database/sql"

	intconfig "campusshuttle/internal/config"

	"github.com/shopspring/decimal"
)

// AnalyticsService serves the read-only aggregates behind the admin
// dashboard.
type AnalyticsService struct {
	DB *sql.DB
}

func (s AnalyticsService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

type RouteUsage struct {
	RouteID   string          `json:"routeId"`
	RouteName string          `json:"routeName"`
	Bookings  int             `json:"bookings"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type DailyBookings struct {
	Day      string `json:"day"` // YYYY-MM-DD
	Bookings int    `json:"bookings"`
}

type Overview struct {
	TotalStudents     int             `json:"totalStudents"`
	TotalBookings     int             `json:"totalBookings"`
	ActiveRoutes      int             `json:"activeRoutes"`
	ActiveStops       int             `json:"activeStops"`
	WalletOutstanding decimal.Decimal `json:"walletOutstanding"`
}

// RouteUsage aggregates confirmed and completed bookings per route over the
// last `days` days. Cancelled bookings are excluded; their debits were
// refunded.
func (s AnalyticsService) RouteUsage(days int) ([]RouteUsage, error) {
	if days <= 0 {
		days = 30
	}
	rows, err := s.db().Query(
		`SELECT r.id, r.name, COUNT(DISTINCT b.id), COALESCE(SUM(bl.cost), 0)
		 FROM routes r
		 JOIN booking_legs bl ON bl.route_id = r.id
		 JOIN bookings b ON b.id = bl.booking_id
		 WHERE b.status IN ('confirmed','completed')
		   AND b.created_at >= DATE_SUB(NOW(), INTERVAL ? DAY)
		 GROUP BY r.id, r.name
		 ORDER BY COUNT(DISTINCT b.id) DESC`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RouteUsage{}
	for rows.Next() {
		var ru RouteUsage
		if err := rows.Scan(&ru.RouteID, &ru.RouteName, &ru.Bookings, &ru.Revenue); err != nil {
			return nil, err
		}
		out = append(out, ru)
	}
	return out, rows.Err()
}

// DailyBookings counts bookings per day over the last `days` days.
func (s AnalyticsService) DailyBookings(days int) ([]DailyBookings, error) {
	if days <= 0 {
		days = 14
	}
	rows, err := s.db().Query(
		`SELECT DATE_FORMAT(created_at, '%Y-%m-%d'), COUNT(*)
		 FROM bookings
		 WHERE created_at >= DATE_SUB(NOW(), INTERVAL ? DAY)
		 GROUP BY DATE_FORMAT(created_at, '%Y-%m-%d')
		 ORDER BY 1`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DailyBookings{}
	for rows.Next() {
		var d DailyBookings
		if err := rows.Scan(&d.Day, &d.Bookings); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Overview returns the headline numbers for the dashboard cards.
func (s AnalyticsService) Overview() (Overview, error) {
	var ov Overview
	db := s.db()
	if err := db.QueryRow(`SELECT COUNT(*) FROM students`).Scan(&ov.TotalStudents); err != nil {
		return Overview{}, err
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM bookings`).Scan(&ov.TotalBookings); err != nil {
		return Overview{}, err
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM routes WHERE is_active = 1`).Scan(&ov.ActiveRoutes); err != nil {
		return Overview{}, err
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM stops WHERE is_active = 1`).Scan(&ov.ActiveStops); err != nil {
		return Overview{}, err
	}
	if err := db.QueryRow(`SELECT COALESCE(SUM(wallet_balance), 0) FROM students`).Scan(&ov.WalletOutstanding); err != nil {
		return Overview{}, err
	}
	return ov, nil
}
