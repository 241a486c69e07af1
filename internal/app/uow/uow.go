// Package uow defines the transaction boundary the application handlers work
// against. A UnitOfWork exposes every aggregate repository; implementations
// decide whether Commit means a Mongo transaction or a no-op.
package uow

import (
	"context"

	"erents/internal/domain/booking"
	"erents/internal/domain/maintenance"
	"erents/internal/domain/messaging"
	"erents/internal/domain/notification"
	"erents/internal/domain/property"
	"erents/internal/domain/rental"
	"erents/internal/domain/reviews"
	"erents/internal/domain/tenancy"
	"erents/internal/domain/user"
)

type UnitOfWork interface {
	Users() user.Repository
	Properties() property.Repository
	Rentals() rental.Repository
	Bookings() booking.Repository
	Tenancies() tenancy.Repository
	Reviews() reviews.Repository
	Maintenance() maintenance.Repository
	Conversations() messaging.Repository
	Notifications() notification.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Factory starts unit of work instances.
type Factory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

type TxOptions struct {
	ReadOnly bool
}
