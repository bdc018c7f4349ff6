package services

import (
	"context"

	"clover/domain/entities"
	"clover/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// inTransaction runs fn inside a fresh unit of work. Domain errors from fn are
// returned unchanged; anything else is rolled back and reported as a storage
// failure of op.
func inTransaction(ctx context.Context, factory interfaces.UnitOfWorkFactory, op string, fn func(uow interfaces.UnitOfWork) error) error {
	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return entities.NewStorageError(op, err)
	}
	defer func() {
		if err := uow.Rollback(); err != nil {
			log.WithError(err).WithField("op", op).Warn("Rollback failed")
		}
	}()

	if err := fn(uow); err != nil {
		if entities.IsDomainError(err) {
			return err
		}
		log.WithError(err).WithField("op", op).Error("Storage failure, transaction rolled back")
		return entities.NewStorageError(op, err)
	}

	if err := uow.Commit(); err != nil {
		log.WithError(err).WithField("op", op).Error("Commit failed")
		return entities.NewStorageError(op, err)
	}
	return nil
}
