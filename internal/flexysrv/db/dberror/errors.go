package dberror

import (
	"net/http"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
)

var (
	ErrDatabase        apperrors.Error = apperrors.New("db error").SetStatusCode(http.StatusInternalServerError).SetExpandError(true)
	ErrAlreadyExists   apperrors.Error = ErrDatabase.New("already exists").SetStatusCode(http.StatusConflict)
	ErrNotFound        apperrors.Error = ErrDatabase.New("not found").SetStatusCode(http.StatusNotFound)
	ErrValidation      apperrors.Error = ErrDatabase.New("validation failed").SetStatusCode(http.StatusBadRequest)
	ErrProvisioning    apperrors.Error = ErrDatabase.New("tenant database provisioning failed").SetStatusCode(http.StatusInternalServerError)
	ErrMigration       apperrors.Error = ErrDatabase.New("migration failed").SetStatusCode(http.StatusInternalServerError)
	ErrVersionConflict apperrors.Error = ErrMigration.New("recorded schema version exceeds defined migrations").SetStatusCode(http.StatusInternalServerError)
	ErrLockTimeout     apperrors.Error = ErrDatabase.New("tenant lock not acquired in time").SetStatusCode(http.StatusServiceUnavailable)
	ErrConnection      apperrors.Error = ErrDatabase.New("database connection failed").SetStatusCode(http.StatusServiceUnavailable)
)
