package config

import (
	"fmt"

	"github.com/hemanthpathath/flexy-db/internal/flexysrv/config"
)

// ControlDSN returns the connection string for the shared control database.
func ControlDSN() string {
	return dsn(config.Config().Database.ControlDBName)
}

// AdminDSN returns the connection string for the maintenance database used
// to issue CREATE DATABASE / DROP DATABASE.
func AdminDSN() string {
	return dsn(config.Config().Database.AdminDBName)
}

// TenantDSN returns the connection string for one tenant's physical database.
func TenantDSN(dbName string) string {
	return dsn(dbName)
}

// ControlDBName returns the name of the shared control database.
func ControlDBName() string {
	return config.Config().Database.ControlDBName
}

// AdminDBName returns the name of the maintenance database.
func AdminDBName() string {
	return config.Config().Database.AdminDBName
}

func dsn(dbName string) string {
	db := config.Config().Database
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.User, db.Password, dbName, db.SSLMode)
}
