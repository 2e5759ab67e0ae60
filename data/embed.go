// Package data embeds the database bootstrap scripts. The scripts assume the
// database and service user are both named mindsync.
package data

import (
	_ "embed"
)

//go:embed initdb/mariadb/001-database.sql
var InitdbMariaDBDatabase string

//go:embed initdb/mariadb/002-privileges.sql
var InitdbMariaDBPrivileges string
