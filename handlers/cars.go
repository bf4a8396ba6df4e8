package handlers

import (
	"errors"
	"net/http"

	"car-rental-api/config"
	"car-rental-api/middleware"
	"car-rental-api/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// CreateCarRequest is kind-discriminated: rent listings require a daily rate
// and must not carry a sale price; sale listings the other way around.
type CreateCarRequest struct {
	Brand            string             `json:"brand" binding:"required"`
	Model            string             `json:"model" binding:"required"`
	Year             int                `json:"year" binding:"required,gte=1950"`
	Mileage          int                `json:"mileage" binding:"gte=0"`
	Type             string             `json:"type"`
	Location         string             `json:"location"`
	Kind             models.ListingKind `json:"kind" binding:"required,oneof=rent sale"`
	PricePerDay      float64            `json:"pricePerDay" binding:"required_if=Kind rent,excluded_if=Kind sale,omitempty,gt=0"`
	SalePrice        float64            `json:"salePrice" binding:"required_if=Kind sale,excluded_if=Kind rent,omitempty,gt=0"`
	HandicapFriendly bool               `json:"handicapFriendly"`
	Images           []string           `json:"images"`
}

// CreateCar lets a dealer list a car for rent or sale
func CreateCar(c *gin.Context) {
	dealerID := middleware.GetUserID(c)

	var req CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	car := models.Car{
		DealerID:         dealerID,
		Brand:            req.Brand,
		Model:            req.Model,
		Year:             req.Year,
		Mileage:          req.Mileage,
		Type:             req.Type,
		Location:         req.Location,
		Kind:             req.Kind,
		HandicapFriendly: req.HandicapFriendly,
	}
	if req.Kind == models.ListingRent {
		car.PricePerDay = req.PricePerDay
		car.Availability = models.CarAvailable
	} else {
		car.SalePrice = req.SalePrice
	}
	for i, url := range req.Images {
		car.Images = append(car.Images, models.CarImage{URL: url, Position: i})
	}

	if err := config.DB.Create(&car).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create car"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Car listed", "car": car})
}

// GetMyCars lists all cars owned by the logged-in dealer
func GetMyCars(c *gin.Context) {
	dealerID := middleware.GetUserID(c)
	var cars []models.Car
	config.DB.Preload("Images").
		Where("dealer_id = ?", dealerID).
		Order("created_at desc").
		Find(&cars)
	c.JSON(http.StatusOK, gin.H{"count": len(cars), "cars": cars})
}

// loadOwnedCar fetches a car and enforces that the caller owns it or is admin.
// Availability, sold state, buyer, owner and kind are never reachable through
// car updates; rental and sale flows drive those.
func loadOwnedCar(c *gin.Context) (*models.Car, bool) {
	var car models.Car
	if err := config.DB.First(&car, c.Param("carId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
		return nil, false
	}
	if middleware.GetRole(c) != models.RoleAdmin && car.DealerID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't own this car"})
		return nil, false
	}
	return &car, true
}

// UpdateCarRequest carries the fields a listing update may touch. Absent
// fields stay untouched; present ones pass the same range rules as creation.
// Availability, sold state, buyer, owner and kind have no field here.
type UpdateCarRequest struct {
	Brand            *string  `json:"brand" binding:"omitempty,min=1"`
	Model            *string  `json:"model" binding:"omitempty,min=1"`
	Year             *int     `json:"year" binding:"omitempty,gte=1950"`
	Mileage          *int     `json:"mileage" binding:"omitempty,gte=0"`
	Type             *string  `json:"type"`
	Location         *string  `json:"location"`
	PricePerDay      *float64 `json:"pricePerDay" binding:"omitempty,gt=0"`
	SalePrice        *float64 `json:"salePrice" binding:"omitempty,gt=0"`
	HandicapFriendly *bool    `json:"handicapFriendly"`
}

// UpdateCar updates listing details (owner or admin). Kind-exclusive fields
// are rejected on the wrong kind instead of silently dropped.
func UpdateCar(c *gin.Context) {
	car, ok := loadOwnedCar(c)
	if !ok {
		return
	}

	var req UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verr validator.ValidationErrors
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	update := map[string]interface{}{}
	if req.Brand != nil {
		update["brand"] = *req.Brand
	}
	if req.Model != nil {
		update["model"] = *req.Model
	}
	if req.Year != nil {
		update["year"] = *req.Year
	}
	if req.Mileage != nil {
		update["mileage"] = *req.Mileage
	}
	if req.Type != nil {
		update["type"] = *req.Type
	}
	if req.Location != nil {
		update["location"] = *req.Location
	}
	if req.PricePerDay != nil {
		if car.Kind != models.ListingRent {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "pricePerDay only applies to rent listings"})
			return
		}
		if *req.PricePerDay <= 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "pricePerDay must be positive"})
			return
		}
		update["price_per_day"] = *req.PricePerDay
	}
	if req.SalePrice != nil {
		if car.Kind != models.ListingSale {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "salePrice only applies to sale listings"})
			return
		}
		if *req.SalePrice <= 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "salePrice must be positive"})
			return
		}
		update["sale_price"] = *req.SalePrice
	}
	if req.HandicapFriendly != nil {
		update["handicap_friendly"] = *req.HandicapFriendly
	}
	if len(update) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No updatable fields provided"})
		return
	}

	if err := config.DB.Model(car).Updates(update).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update car"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Car updated", "car": car})
}

// DeleteCar removes a listing (owner or admin). Cars with an active rental
// cannot be deleted out from under the renter.
func DeleteCar(c *gin.Context) {
	car, ok := loadOwnedCar(c)
	if !ok {
		return
	}

	var active int64
	config.DB.Model(&models.RentalRequest{}).
		Where("car_id = ? AND status IN ?", car.ID,
			[]models.RentalStatus{models.RentalPending, models.RentalApproved}).
		Count(&active)
	if active > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Car has active rental requests"})
		return
	}

	config.DB.Where("car_id = ?", car.ID).Delete(&models.CarImage{})
	config.DB.Where("car_id = ?", car.ID).Delete(&models.Review{})
	config.DB.Delete(car)
	c.JSON(http.StatusOK, gin.H{"message": "Car deleted"})
}
