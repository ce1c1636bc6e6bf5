// Package migrations embeds the DDL for local mirrors of the IBM i files
// used by the repo package, in golang-migrate's NNNNNN_name.up/down.sql form.
package migrations

import (
	"embed"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var FS embed.FS

// Source returns the embedded migrations as a golang-migrate source driver.
func Source() (source.Driver, error) {
	return iofs.New(FS, ".")
}
