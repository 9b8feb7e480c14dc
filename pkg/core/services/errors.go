package services

import (
	"errors"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/db"
)

// storeError converts a store failure into a domain error. Domain errors
// raised inside a locked function pass through untouched; db.ErrNotFound
// becomes notFound when given; anything else is StorageUnavailable.
func storeError(err error, notFound *model.Error) error {
	if err == nil {
		return nil
	}
	if model.KindOf(err) != "" {
		return err
	}
	if notFound != nil && errors.Is(err, db.ErrNotFound) {
		return notFound
	}
	return model.StorageUnavailable(err)
}
