// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"database/sql"
	"github.com/rubenv/sql-migrate"
)

// This file maintains the database migration code.  See
// https://github.com/rubenv/sql-migrate for details of what goes in
// here.  This runs "outside" the normal resource flow, either at
// initial startup or from an external tool.

var migrationSource = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "1_resource_version",
			Up: []string{
				`CREATE TABLE resource_version(
				     id SERIAL PRIMARY KEY,
				     identifier TEXT NOT NULL,
				     modified TIMESTAMP WITH TIME ZONE NOT NULL,
				     parent TEXT,
				     deleted BOOLEAN NOT NULL DEFAULT FALSE,
				     dataset BYTEA NOT NULL
				 )`,
				`CREATE INDEX resource_version_identifier ON resource_version(identifier, id)`,
				`CREATE INDEX resource_version_parent ON resource_version(parent)`,
			},
			Down: []string{
				`DROP TABLE resource_version`,
			},
		},
	},
}

// Upgrade upgrades a database to the latest database schema version.
func Upgrade(db *sql.DB) error {
	_, err := migrate.Exec(db, "postgres", migrationSource, migrate.Up)
	return err
}

// Drop clears a database by running all of the migrations in reverse,
// ultimately resulting in dropping all of the tables.
func Drop(db *sql.DB) error {
	_, err := migrate.Exec(db, "postgres", migrationSource, migrate.Down)
	return err
}
