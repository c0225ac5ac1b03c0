package postgres

import "embed"

// Migrations holds the schema of the collaborator tables used for local
// development and integration environments.
//
//go:embed migrations/*.sql
var Migrations embed.FS
