package db

import "database/sql"

// EnsureSchema creates missing tables on startup. Existing tables are left
// untouched; production deployments run versioned migrations instead.
func EnsureSchema(db *sql.DB) error {
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}

var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS users (
	id CHAR(36) PRIMARY KEY,
	email VARCHAR(255) NOT NULL UNIQUE,
	password_hash VARCHAR(255) NOT NULL,
	name VARCHAR(255) NOT NULL,
	role VARCHAR(20) NOT NULL DEFAULT 'student',
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS students (
	id CHAR(36) PRIMARY KEY,
	user_id CHAR(36) NOT NULL,
	student_code VARCHAR(50) NOT NULL UNIQUE,
	wallet_balance DECIMAL(10,2) NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_students_user (user_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS stops (
	id CHAR(36) PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	latitude DECIMAL(10,7) NOT NULL,
	longitude DECIMAL(10,7) NOT NULL,
	address VARCHAR(500),
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS routes (
	id CHAR(36) PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	color VARCHAR(20) NOT NULL DEFAULT '#1e3a5f',
	base_fare DECIMAL(10,2) NOT NULL DEFAULT 0,
	estimated_duration INT NOT NULL DEFAULT 0,
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS route_stops (
	id CHAR(36) PRIMARY KEY,
	route_id CHAR(36) NOT NULL,
	stop_id CHAR(36) NOT NULL,
	stop_order INT NOT NULL,
	travel_time_from_previous INT NOT NULL DEFAULT 0,
	distance_from_previous DECIMAL(8,3) NOT NULL DEFAULT 0,
	UNIQUE KEY uniq_route_order (route_id, stop_order),
	UNIQUE KEY uniq_route_stop (route_id, stop_id),
	KEY idx_route_stops_stop (stop_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS route_operating_hours (
	id CHAR(36) PRIMARY KEY,
	route_id CHAR(36) NOT NULL,
	day_of_week INT NOT NULL,
	start_time TIME NOT NULL,
	end_time TIME NOT NULL,
	KEY idx_operating_route (route_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS route_peak_hours (
	id CHAR(36) PRIMARY KEY,
	route_id CHAR(36) NOT NULL,
	name VARCHAR(100) NOT NULL,
	start_time TIME NOT NULL,
	end_time TIME NOT NULL,
	multiplier DECIMAL(4,2) NOT NULL DEFAULT 1.0,
	KEY idx_peak_route (route_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS bookings (
	id CHAR(36) PRIMARY KEY,
	student_id CHAR(36) NOT NULL,
	total_cost DECIMAL(10,2) NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'confirmed',
	booking_reference VARCHAR(30) NOT NULL,
	cancelled_by CHAR(36),
	cancellation_reason VARCHAR(500),
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_booking_reference (booking_reference),
	KEY idx_bookings_student (student_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS booking_legs (
	id CHAR(36) PRIMARY KEY,
	booking_id CHAR(36) NOT NULL,
	leg_order INT NOT NULL,
	route_id CHAR(36) NOT NULL,
	from_stop_id CHAR(36) NOT NULL,
	to_stop_id CHAR(36) NOT NULL,
	scheduled_time DATETIME NOT NULL,
	cost DECIMAL(10,2) NOT NULL,
	UNIQUE KEY uniq_booking_leg (booking_id, leg_order),
	KEY idx_legs_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS wallet_transactions (
	id CHAR(36) PRIMARY KEY,
	student_id CHAR(36) NOT NULL,
	type VARCHAR(10) NOT NULL,
	amount DECIMAL(10,2) NOT NULL,
	booking_id CHAR(36),
	description VARCHAR(500) NOT NULL,
	reference VARCHAR(100),
	processed_by CHAR(36),
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_wallet_reference (reference),
	KEY idx_wallet_student (student_id),
	KEY idx_wallet_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
}
