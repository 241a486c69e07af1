package memory

import (
	"context"
	"errors"

	"erents/internal/app/uow"
	domainbooking "erents/internal/domain/booking"
	domainmaintenance "erents/internal/domain/maintenance"
	domainmessaging "erents/internal/domain/messaging"
	domainnotification "erents/internal/domain/notification"
	domainproperty "erents/internal/domain/property"
	domainrental "erents/internal/domain/rental"
	domainreviews "erents/internal/domain/reviews"
	domaintenancy "erents/internal/domain/tenancy"
	domainuser "erents/internal/domain/user"
)

var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires the in-memory repositories into a unit-of-work boundary.
// Repos outlive units; Commit and Rollback are no-ops since writes apply
// immediately. NewFactory builds a fully populated one.
type Factory struct {
	UsersRepo         domainuser.Repository
	PropertiesRepo    domainproperty.Repository
	RentalsRepo       domainrental.Repository
	BookingsRepo      domainbooking.Repository
	TenanciesRepo     domaintenancy.Repository
	ReviewsRepo       domainreviews.Repository
	MaintenanceRepo   domainmaintenance.Repository
	ConversationsRepo domainmessaging.Repository
	NotificationsRepo domainnotification.Repository
}

func NewFactory() *Factory {
	return &Factory{
		UsersRepo:         NewUserRepository(),
		PropertiesRepo:    NewPropertyRepository(),
		RentalsRepo:       NewRentalRepository(),
		BookingsRepo:      NewBookingRepository(),
		TenanciesRepo:     NewTenancyRepository(),
		ReviewsRepo:       NewReviewRepository(),
		MaintenanceRepo:   NewMaintenanceRepository(),
		ConversationsRepo: NewConversationRepository(),
		NotificationsRepo: NewNotificationRepository(),
	}
}

func (f *Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.UsersRepo == nil || f.PropertiesRepo == nil || f.RentalsRepo == nil ||
		f.BookingsRepo == nil || f.TenanciesRepo == nil || f.ReviewsRepo == nil ||
		f.MaintenanceRepo == nil || f.ConversationsRepo == nil || f.NotificationsRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{factory: f}, nil
}

// Unit is a lightweight uow.UnitOfWork over the shared in-memory repos. No
// isolation is provided; the abstraction matches the application ports.
type Unit struct {
	factory *Factory
}

func (u *Unit) Users() domainuser.Repository                 { return u.factory.UsersRepo }
func (u *Unit) Properties() domainproperty.Repository        { return u.factory.PropertiesRepo }
func (u *Unit) Rentals() domainrental.Repository             { return u.factory.RentalsRepo }
func (u *Unit) Bookings() domainbooking.Repository           { return u.factory.BookingsRepo }
func (u *Unit) Tenancies() domaintenancy.Repository          { return u.factory.TenanciesRepo }
func (u *Unit) Reviews() domainreviews.Repository            { return u.factory.ReviewsRepo }
func (u *Unit) Maintenance() domainmaintenance.Repository    { return u.factory.MaintenanceRepo }
func (u *Unit) Conversations() domainmessaging.Repository    { return u.factory.ConversationsRepo }
func (u *Unit) Notifications() domainnotification.Repository { return u.factory.NotificationsRepo }

func (u *Unit) Commit(ctx context.Context) error   { return nil }
func (u *Unit) Rollback(ctx context.Context) error { return nil }

var _ uow.Factory = (*Factory)(nil)
