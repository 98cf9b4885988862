package services_test

import (
	"fmt"
	"sync"
	"testing"

	"unimarket/internal/lifecycle"
	"unimarket/internal/models"
	"unimarket/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupServiceDB opens a fresh in-memory SQLite database and migrates the full
// schema. Each test gets its own named database so parallel tests cannot see
// each other's rows.
func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Request{},
		&models.Offer{},
		&models.Order{},
		&models.OrderRequirements{},
		&models.Message{},
		&models.Review{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return db
}

// recordingPublisher captures routing keys so tests can assert which events a
// service published, without a broker.
type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(exchange, routingKey string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return nil
}

func (p *recordingPublisher) RoutingKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// reposOverrideTxManager wraps a real transaction manager and swaps selected
// repositories inside the transactional bundle. Used to force a mid-transaction
// failure and observe the rollback.
type reposOverrideTxManager struct {
	inner    repositories.TxManager
	override func(repositories.Repos) repositories.Repos
}

func (m *reposOverrideTxManager) InTx(fn func(repositories.Repos) error) error {
	return m.inner.InTx(func(r repositories.Repos) error {
		return fn(m.override(r))
	})
}

// stubRequestCloser delegates everything except CloseIfOpen, which fails with
// the configured error, or reports the request as already closed when the
// error is nil.
type stubRequestCloser struct {
	repositories.RequestRepository
	closeErr error
}

func (s stubRequestCloser) CloseIfOpen(id string) (bool, error) {
	if s.closeErr != nil {
		return false, s.closeErr
	}
	return false, nil
}

// stubOrderStatusFlip delegates everything except UpdateStatusFrom, which
// fails with the configured error.
type stubOrderStatusFlip struct {
	repositories.OrderRepository
	flipErr error
}

func (s stubOrderStatusFlip) UpdateStatusFrom(id string, from, to lifecycle.Status) (bool, error) {
	return false, s.flipErr
}

func seedRequest(t *testing.T, repos repositories.Repos, ownerID string, budget float64) *models.Request {
	t.Helper()
	request := &models.Request{
		OwnerID: ownerID,
		Title:   "Proofread my thesis",
		Budget:  budget,
		Status:  models.RequestOpen,
	}
	if err := repos.Requests.Create(request); err != nil {
		t.Fatalf("failed to seed request: %v", err)
	}
	return request
}

func seedOffer(t *testing.T, repos repositories.Repos, requestID, providerID string, price float64) *models.Offer {
	t.Helper()
	offer := &models.Offer{
		RequestID:   requestID,
		ProviderID:  providerID,
		Price:       price,
		Description: "I can do this by Friday",
		Status:      models.OfferPending,
	}
	if err := repos.Offers.Create(offer); err != nil {
		t.Fatalf("failed to seed offer: %v", err)
	}
	return offer
}

func seedListing(t *testing.T, repos repositories.Repos, sellerID string, price float64) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		SellerID: sellerID,
		Title:    "Calculus tutoring, one hour",
		Price:    price,
	}
	if err := repos.Listings.Create(listing); err != nil {
		t.Fatalf("failed to seed listing: %v", err)
	}
	return listing
}
