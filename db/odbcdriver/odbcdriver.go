// Package odbcdriver connects the db package to IBM i through the IBM i
// Access ODBC driver (github.com/alexbrainman/odbc). Importing it registers
// the "odbc" adapter with db.LookupDriver.
package odbcdriver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexbrainman/odbc"

	"github.com/Skryldev/ibmi-toolkit/db"
)

// DefaultODBCDriver is the driver name installed by IBM i Access Client
// Solutions on Linux and Windows.
const DefaultODBCDriver = "IBM i Access ODBC Driver"

// Driver is the db.Driver for IBM i over ODBC.
type Driver struct{}

func (Driver) Name() string { return "odbc" }

// DSN builds an ODBC connection string:
//
//	DRIVER={IBM i Access ODBC Driver};SYSTEM=host;UID=user;PWD=pw;NAM=0;DBQ=MYLIB;
//
// Database becomes the default library. With system naming and no
// Database, DBQ starts with a comma so the job library list is searched.
// Extra keywords are appended in sorted order; a DRIVER entry there replaces
// DefaultODBCDriver.
func (Driver) DSN(o db.DriverOptions) (string, error) {
	if o.Host == "" {
		return "", fmt.Errorf("odbc driver: Host (SYSTEM) is required")
	}

	driverName := DefaultODBCDriver
	if v, ok := o.Extra["DRIVER"]; ok {
		driverName = strings.Trim(v, "{}")
	}

	var b strings.Builder
	write := func(k, v string) {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(quote(v))
		b.WriteByte(';')
	}

	b.WriteString("DRIVER={" + driverName + "};")
	write("SYSTEM", o.Host)
	if o.User != "" {
		write("UID", o.User)
	}
	if o.Password != "" {
		write("PWD", o.Password)
	}
	nam := "0"
	if o.Naming == db.SystemNaming {
		nam = "1"
	}
	write("NAM", nam)
	if dbq := libraryList(o); dbq != "" {
		write("DBQ", dbq)
	}
	for _, k := range o.SortedExtra() {
		if strings.EqualFold(k, "DRIVER") {
			continue
		}
		write(k, o.Extra[k])
	}
	return b.String(), nil
}

func libraryList(o db.DriverOptions) string {
	libs := make([]string, 0, len(o.Libraries)+1)
	libs = append(libs, strings.ToUpper(o.Database))
	for _, l := range o.Libraries {
		libs = append(libs, strings.ToUpper(l))
	}
	dbq := strings.Join(libs, ",")
	if o.Database != "" || o.Naming == db.SystemNaming {
		return dbq
	}
	return strings.TrimPrefix(dbq, ",")
}

// quote wraps values that would break the keyword list in braces.
func quote(v string) string {
	if strings.ContainsAny(v, ";{}") || strings.TrimSpace(v) != v {
		return "{" + strings.ReplaceAll(v, "}", "}}") + "}"
	}
	return v
}

// ErrorMapper maps ODBC diagnostic records to db sentinels by SQLSTATE.
func (Driver) ErrorMapper() db.ErrorMapper { return db.ErrorMapperFunc(mapError) }

// Register is a no-op: the odbc package registers itself with database/sql.
func (Driver) Register() {}

func mapError(err error) error {
	var oe *odbc.Error
	if !errors.As(err, &oe) {
		return err
	}
	for _, rec := range oe.Diag {
		if mapped := db.MapSQLState(rec.State, err); mapped != nil {
			return mapped
		}
	}
	return err
}

func init() {
	db.RegisterDriver(Driver{})
}
