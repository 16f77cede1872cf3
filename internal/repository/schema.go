package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements 建表语句。
// 所有表的 id 共用 record_id_seq，保持"全库唯一自增 id"的语义。
var schemaStatements = []string{
	`CREATE SEQUENCE IF NOT EXISTS record_id_seq`,
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY DEFAULT nextval('record_id_seq'),
		username TEXT NOT NULL UNIQUE,
		password TEXT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		profile_image TEXT,
		google_id TEXT UNIQUE,
		google_profile_pic TEXT,
		access_token TEXT,
		refresh_token TEXT,
		token_balance INTEGER NOT NULL DEFAULT 0,
		lifetime_tokens INTEGER NOT NULL DEFAULT 0,
		streak INTEGER NOT NULL DEFAULT 0,
		streak_goal INTEGER NOT NULL DEFAULT 7
	)`,
	`CREATE TABLE IF NOT EXISTS health_stats (
		id INTEGER PRIMARY KEY DEFAULT nextval('record_id_seq'),
		user_id INTEGER NOT NULL,
		date TIMESTAMPTZ NOT NULL DEFAULT now(),
		blood_pressure TEXT,
		blood_pressure_status TEXT,
		heart_rate INTEGER NOT NULL DEFAULT 0,
		heart_rate_status TEXT,
		steps INTEGER NOT NULL DEFAULT 0,
		steps_goal INTEGER NOT NULL DEFAULT 10000,
		hydration_glasses INTEGER NOT NULL DEFAULT 0,
		hydration_goal INTEGER NOT NULL DEFAULT 8
	)`,
	`CREATE TABLE IF NOT EXISTS reminders (
		id INTEGER PRIMARY KEY DEFAULT nextval('record_id_seq'),
		user_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		time TIMESTAMPTZ NOT NULL,
		type TEXT NOT NULL,
		icon TEXT,
		completed BOOLEAN NOT NULL DEFAULT false,
		recurring BOOLEAN NOT NULL DEFAULT false,
		recurring_pattern TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id INTEGER PRIMARY KEY DEFAULT nextval('record_id_seq'),
		user_id INTEGER NOT NULL,
		content TEXT NOT NULL,
		sender TEXT NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT now(),
		conversation_id TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id INTEGER PRIMARY KEY DEFAULT nextval('record_id_seq'),
		user_id INTEGER NOT NULL,
		type TEXT NOT NULL,
		doctor_name TEXT NOT NULL,
		location TEXT,
		date TIMESTAMPTZ NOT NULL,
		duration INTEGER NOT NULL,
		status TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS home_remedies (
		id INTEGER PRIMARY KEY DEFAULT nextval('record_id_seq'),
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		ailment TEXT NOT NULL,
		ingredients TEXT[] NOT NULL,
		instructions TEXT NOT NULL,
		rating REAL,
		review_count INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS health_tracking (
		id INTEGER PRIMARY KEY DEFAULT nextval('record_id_seq'),
		user_id INTEGER NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT now(),
		type TEXT NOT NULL,
		value TEXT NOT NULL,
		notes TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS medicine_scans (
		id INTEGER PRIMARY KEY DEFAULT nextval('record_id_seq'),
		user_id INTEGER NOT NULL,
		medicine_name TEXT NOT NULL,
		dosage TEXT,
		timing TEXT,
		side_effects TEXT[],
		scanned_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS rewards (
		id INTEGER PRIMARY KEY DEFAULT nextval('record_id_seq'),
		user_id INTEGER NOT NULL,
		type TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		icon TEXT,
		acquired_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS achievements (
		id INTEGER PRIMARY KEY DEFAULT nextval('record_id_seq'),
		user_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		icon TEXT,
		acquired_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema 启动时幂等建表
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
