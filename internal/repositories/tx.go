package repositories

import (
	"gorm.io/gorm"
)

// Repos bundles one repository per entity, all bound to the same database
// handle. Inside a transaction every repository in the bundle shares the
// transaction, so a multi-table mutation commits or rolls back as a unit.
type Repos struct {
	Users    UserRepository
	Listings ListingRepository
	Requests RequestRepository
	Offers   OfferRepository
	Orders   OrderRepository
	Messages MessageRepository
	Reviews  ReviewRepository
}

// NewGORMRepos builds a Repos bundle over the given handle, which may be a
// root *gorm.DB or a transaction.
func NewGORMRepos(db *gorm.DB) Repos {
	return Repos{
		Users:    NewGORMUserRepository(db),
		Listings: NewGORMListingRepository(db),
		Requests: NewGORMRequestRepository(db),
		Offers:   NewGORMOfferRepository(db),
		Orders:   NewGORMOrderRepository(db),
		Messages: NewGORMMessageRepository(db),
		Reviews:  NewGORMReviewRepository(db),
	}
}

// TxManager runs a function against a transactional Repos bundle. If the
// function returns an error, every write made through the bundle is rolled
// back.
type TxManager interface {
	InTx(fn func(Repos) error) error
}

// GORMTxManager implements TxManager on top of gorm's transaction support.
type GORMTxManager struct {
	db *gorm.DB
}

// NewGORMTxManager creates a new instance of GORMTxManager.
func NewGORMTxManager(db *gorm.DB) *GORMTxManager {
	return &GORMTxManager{
		db: db,
	}
}

// InTx opens a database transaction, binds a Repos bundle to it and invokes
// fn. Commit happens only when fn returns nil.
func (m *GORMTxManager) InTx(fn func(Repos) error) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMRepos(tx))
	})
}
