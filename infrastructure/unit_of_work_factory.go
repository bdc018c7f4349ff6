package infrastructure

import (
	"clover/database"
	"clover/domain/events"
	"clover/domain/interfaces"
	"clover/repository"
)

// UnitOfWorkFactory creates units of work that couple a database
// transaction with commit-time event publishing
type UnitOfWorkFactory struct {
	repoFactory    *repository.UnitOfWorkFactory
	eventPublisher interfaces.EventPublisher
}

// NewUnitOfWorkFactory creates a new UnitOfWorkFactory
func NewUnitOfWorkFactory(db *database.DB, eventPublisher interfaces.EventPublisher) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		repoFactory:    repository.NewUnitOfWorkFactory(db),
		eventPublisher: eventPublisher,
	}
}

// RegisterLocalHandler registers an in-process handler for committed
// events. It is a no-op unless the publisher is a NATSEventPublisher.
func (f *UnitOfWorkFactory) RegisterLocalHandler(eventType events.EventType, handler EventHandler) {
	if natsPublisher, ok := f.eventPublisher.(*NATSEventPublisher); ok {
		natsPublisher.RegisterLocalHandler(eventType, handler)
	}
}

// Create returns a fresh unit of work with its own pending event queue
func (f *UnitOfWorkFactory) Create() interfaces.UnitOfWork {
	transactionalPublisher := NewNATSTransactionalPublisher(f.eventPublisher)
	return &unitOfWork{
		inner:                  f.repoFactory.CreateWithPublisher(transactionalPublisher),
		transactionalPublisher: transactionalPublisher,
	}
}
