// Package appfs embeds the static assets shipped with the binaries.
package appfs

import "embed"

var (
	//go:embed migrations/*.sql
	Migrations embed.FS

	//go:embed templates/email/*
	Templates embed.FS

	//go:embed passwords/common-passwords.txt
	Passwords embed.FS
)

const (
	MigrationsDir       = "migrations"
	EmailTemplatesDir   = "templates/email"
	CommonPasswordsFile = "passwords/common-passwords.txt"
)
