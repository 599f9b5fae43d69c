package repository

import "embed"

// MigrationsFS holds the journal schema migrations.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

// MigrationsPath is the directory of MigrationsFS that contains the files.
const MigrationsPath = "migrations"
