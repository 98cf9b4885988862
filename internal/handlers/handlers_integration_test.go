package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"unimarket/internal/handlers"
	"unimarket/internal/middleware"
	"unimarket/internal/models"
	"unimarket/internal/repositories"
	"unimarket/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupApp builds a Fiber app over a fresh in-memory SQLite database with the
// full handler/service/repository stack wired, minus the message broker.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect to in-memory database")

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Request{},
		&models.Offer{},
		&models.Order{},
		&models.OrderRequirements{},
		&models.Message{},
		&models.Review{},
	), "failed to auto-migrate database")

	repos := repositories.NewGORMRepos(db)
	txManager := repositories.NewGORMTxManager(db)

	// nil event publisher: event delivery is best effort and not under test.
	authService := services.NewAuthService(repos.Users, "test_jwt_secret")
	listingService := services.NewListingService(repos.Listings)
	requestService := services.NewRequestService(repos.Requests)
	offerService := services.NewOfferService(repos, txManager, nil)
	orderService := services.NewOrderService(repos, txManager, nil)
	reviewService := services.NewReviewService(repos)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")

	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	handlers.NewListingHandler(listingService).RegisterRoutes(protected)
	handlers.NewRequestHandler(requestService, offerService).RegisterRoutes(protected)
	handlers.NewOrderHandler(orderService).RegisterRoutes(protected)
	handlers.NewReviewHandler(reviewService).RegisterRoutes(protected)

	return app
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

// doJSON performs a JSON request against the app, optionally authenticated.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	if len(raw) > 0 {
		// List endpoints return arrays; callers decode those themselves.
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

// registerAndLogin creates a user through the API and returns their ID and a
// bearer token.
func registerAndLogin(t *testing.T, app *fiber.App, username string) (string, string) {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok, "register response should include the user")
	userID, _ := user["id"].(string)
	require.NotEmpty(t, userID)

	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	return userID, token
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/orders/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/requests/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// TestRequestOfferOrderFlow drives the full marketplace flow over HTTP: a
// request gets two offers, the owner accepts one, and the resulting order is
// worked through requirements, delivery, a revision round, completion and
// review.
func TestRequestOfferOrderFlow(t *testing.T) {
	app := setupApp(t)

	_, aliceToken := registerAndLogin(t, app, "alice")
	bobID, bobToken := registerAndLogin(t, app, "bob")
	_, carolToken := registerAndLogin(t, app, "carol")

	// Alice posts a request.
	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/requests/", aliceToken, map[string]interface{}{
		"title":  "Proofread my thesis",
		"budget": 50,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	requestID, _ := body["id"].(string)
	require.NotEmpty(t, requestID)

	// Bob and Carol bid on it.
	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/requests/"+requestID+"/offers", bobToken, map[string]interface{}{
		"price":       45,
		"description": "Done by Friday",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	bobOfferID, _ := body["id"].(string)
	require.NotEmpty(t, bobOfferID)

	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/requests/"+requestID+"/offers", carolToken, map[string]interface{}{
		"price":       60,
		"description": "Done by Thursday",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	carolOfferID, _ := body["id"].(string)

	// Only the owner sees the offers.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/requests/"+requestID+"/offers", bobToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/requests/"+requestID+"/offers", aliceToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Only the owner may accept; Bob cannot accept his own offer.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/offers/"+bobOfferID+"/accept", bobToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/offers/"+bobOfferID+"/accept", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	orderID, _ := body["new_order_id"].(string)
	require.NotEmpty(t, orderID)

	// Accepting again, or accepting the rejected sibling, fails.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/offers/"+bobOfferID+"/accept", aliceToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/offers/"+carolOfferID+"/accept", aliceToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// The order is visible to its participants only.
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+orderID, aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "awaiting_requirements", body["status"])
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+orderID, carolToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Requirements come from the buyer, nobody else.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/orders/"+orderID+"/requirements", bobToken, map[string]string{
		"requirements_text": "not my call",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/orders/"+orderID+"/requirements", aliceToken, map[string]string{
		"requirements_text": "Proofread the attached draft, APA style.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "in_progress", body["status"])

	// Cancellation window has closed.
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/orders/"+orderID, aliceToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Delivery is the seller's move.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/orders/"+orderID+"/deliver", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/orders/"+orderID+"/deliver", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "delivered", body["status"])

	// One revision round.
	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/orders/"+orderID+"/revision", aliceToken, map[string]string{
		"comment": "Page 2 still has typos",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "in_revision", body["status"])

	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/orders/"+orderID+"/deliver", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "delivered", body["status"])

	// Completion points the buyer at the review flow.
	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/orders/"+orderID+"/complete", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/api/v1/orders/"+orderID+"/review", body["review_path"])

	// The conversation recorded every lifecycle event.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+orderID+"/messages", nil)
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	msgResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, msgResp.StatusCode)
	var messages []map[string]interface{}
	require.NoError(t, json.NewDecoder(msgResp.Body).Decode(&messages))
	msgResp.Body.Close()
	require.Len(t, messages, 4)
	assert.Equal(t, "The seller has delivered the order.", messages[0]["text"])
	assert.Equal(t, "The seller has delivered the revised work.", messages[2]["text"])

	// Review: once, buyer only.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/orders/"+orderID+"/review", aliceToken, map[string]interface{}{
		"rating":  4.5,
		"comment": "Great work, fast turnaround",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/orders/"+orderID+"/review", aliceToken, map[string]interface{}{
		"rating": 1,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// The review shows up on the seller's profile.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/sellers/"+bobID+"/reviews", nil)
	req.Header.Set("Authorization", "Bearer "+carolToken)
	reviewResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, reviewResp.StatusCode)
	var reviews []map[string]interface{}
	require.NoError(t, json.NewDecoder(reviewResp.Body).Decode(&reviews))
	reviewResp.Body.Close()
	require.Len(t, reviews, 1)
	assert.Equal(t, 4.5, reviews[0]["rating"])
}

// TestCheckoutAndCancelFlow covers the direct-purchase path: checkout against
// a listing and buyer cancellation before work starts.
func TestCheckoutAndCancelFlow(t *testing.T) {
	app := setupApp(t)

	_, aliceToken := registerAndLogin(t, app, "alice")
	_, bobToken := registerAndLogin(t, app, "bob")

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/listings/", bobToken, map[string]interface{}{
		"title": "Calculus tutoring, one hour",
		"price": 30,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	listingID, _ := body["id"].(string)
	require.NotEmpty(t, listingID)

	// A seller cannot buy their own listing.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/checkout/"+listingID, bobToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/checkout/"+listingID, aliceToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	orderID, _ := body["id"].(string)
	require.NotEmpty(t, orderID)
	assert.Equal(t, "awaiting_requirements", body["status"])
	assert.Equal(t, listingID, body["listing_id"])

	// Allowed actions for the buyer while awaiting requirements.
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+orderID+"/actions", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	actions, _ := body["actions"].([]interface{})
	assert.ElementsMatch(t, []interface{}{"submit_requirements", "cancel"}, actions)

	// Only the buyer may cancel.
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/orders/"+orderID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/orders/"+orderID, aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// A cancelled order is gone.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+orderID, aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
