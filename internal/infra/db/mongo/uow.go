package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

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

var (
	ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")
	ErrConcurrentUpdate        = errors.New("mongo: concurrent update detected")
)

// Factory wires Mongo sessions into the application's unit of work port.
// Repositories are session-agnostic; Begin injects the session via
// InjectContext so every repo call joins the transaction.
type Factory struct {
	DB *mongo.Database
}

func NewFactory(db *mongo.Database) *Factory {
	return &Factory{DB: db}
}

func (f *Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().
		SetReadConcern(f.DB.ReadConcern()).
		SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{db: f.DB, session: session}, nil
}

type Unit struct {
	db      *mongo.Database
	session mongo.Session
}

func (u *Unit) Users() domainuser.Repository              { return NewUserRepository(u.db) }
func (u *Unit) Properties() domainproperty.Repository     { return NewPropertyRepository(u.db) }
func (u *Unit) Rentals() domainrental.Repository          { return NewRentalRepository(u.db) }
func (u *Unit) Bookings() domainbooking.Repository        { return NewBookingRepository(u.db) }
func (u *Unit) Tenancies() domaintenancy.Repository       { return NewTenancyRepository(u.db) }
func (u *Unit) Reviews() domainreviews.Repository         { return NewReviewRepository(u.db) }
func (u *Unit) Maintenance() domainmaintenance.Repository { return NewMaintenanceRepository(u.db) }
func (u *Unit) Conversations() domainmessaging.Repository { return NewConversationRepository(u.db) }
func (u *Unit) Notifications() domainnotification.Repository {
	return NewNotificationRepository(u.db)
}

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext makes the Mongo session available to repositories running
// under this unit.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.Factory = (*Factory)(nil)
