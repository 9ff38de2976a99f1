package service

import (
	"context"
	"database/sql/driver"
	"errors"

	appErrors "github.com/genkan-institute/genkan-api/pkg/errors"
)

// storeError maps infrastructure failures onto the typed taxonomy.
// Timeouts and dropped connections are transient and safe to retry, so
// they surface as ErrStoreUnavailable; everything else collapses into
// ErrInternal with the cause kept for operator logs only.
func storeError(err error, message string) *appErrors.Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.Is(err, driver.ErrBadConn) {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, appErrors.ErrStoreUnavailable.Message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
