package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"car-rental-api/config"
	"car-rental-api/middleware"
	"car-rental-api/models"
	"car-rental-api/routes"
	"car-rental-api/validation"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Register()
	os.Exit(m.Run())
}

// setupServer wires a fresh in-memory database into the global config.DB and
// returns a router with the full route table. Each test gets its own named
// shared-cache database so state never leaks between tests.
func setupServer(t *testing.T) *gin.Engine {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	config.DB = db

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

// createUser inserts an account directly and returns it with a valid token.
func createUser(t *testing.T, username string, role models.UserRole) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	token, err := middleware.GenerateToken(&user)
	if err != nil {
		t.Fatalf("generate token for %s: %v", username, err)
	}
	return user, token
}

// createRentCar inserts an available rent-kind car owned by the dealer.
func createRentCar(t *testing.T, dealerID uint, pricePerDay float64) models.Car {
	t.Helper()
	car := models.Car{
		DealerID:     dealerID,
		Brand:        "Toyota",
		Model:        "Corolla",
		Year:         2021,
		Mileage:      42000,
		Kind:         models.ListingRent,
		PricePerDay:  pricePerDay,
		Availability: models.CarAvailable,
	}
	if err := config.DB.Create(&car).Error; err != nil {
		t.Fatalf("create car: %v", err)
	}
	return car
}

// createSaleCar inserts an unsold sale-kind car owned by the dealer.
func createSaleCar(t *testing.T, dealerID uint, salePrice float64) models.Car {
	t.Helper()
	car := models.Car{
		DealerID:  dealerID,
		Brand:     "Nissan",
		Model:     "Patrol",
		Year:      2019,
		Mileage:   90000,
		Kind:      models.ListingSale,
		SalePrice: salePrice,
	}
	if err := config.DB.Create(&car).Error; err != nil {
		t.Fatalf("create car: %v", err)
	}
	return car
}

// doJSON performs a request against the router, marshalling body when set.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	out := map[string]interface{}{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func reloadCar(t *testing.T, id uint) models.Car {
	t.Helper()
	var car models.Car
	if err := config.DB.First(&car, id).Error; err != nil {
		t.Fatalf("reload car %d: %v", id, err)
	}
	return car
}

func reloadRental(t *testing.T, id uint) models.RentalRequest {
	t.Helper()
	var rental models.RentalRequest
	if err := config.DB.First(&rental, id).Error; err != nil {
		t.Fatalf("reload rental %d: %v", id, err)
	}
	return rental
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d got %d: %s", want, w.Code, w.Body.String())
	}
}
