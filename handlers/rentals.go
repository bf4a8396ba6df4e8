package handlers

import (
	"errors"
	"net/http"
	"time"

	"car-rental-api/config"
	"car-rental-api/middleware"
	"car-rental-api/models"
	"car-rental-api/pricing"
	"car-rental-api/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type CreateRentalRequest struct {
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" binding:"required,datetime=2006-01-02"`
	Phone     string `json:"phone" binding:"required,bhphone"`
}

// CreateRental submits a rental request against an available rent-kind car.
// The total price is computed here from the persisted daily rate; the car is
// held (availability -> unavailable) until the dealer decides.
func CreateRental(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req CreateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	startDate, _ := time.Parse(dateLayout, req.StartDate)
	endDate, _ := time.Parse(dateLayout, req.EndDate)

	var car models.Car
	if err := config.DB.First(&car, c.Param("carId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
		return
	}
	if car.Kind != models.ListingRent {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Car is listed for sale, not for rent"})
		return
	}
	if car.DealerID == userID {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "You cannot rent your own car"})
		return
	}
	if car.Availability != models.CarAvailable {
		c.JSON(http.StatusConflict, gin.H{"error": "Car is not available for rental", "availability": car.Availability})
		return
	}

	totalPrice, err := pricing.TotalPrice(startDate, endDate, car.PricePerDay)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "End date must be after start date"})
		return
	}

	rental := models.RentalRequest{
		Reference:  uuid.NewString(),
		CarID:      car.ID,
		UserID:     userID,
		StartDate:  startDate,
		EndDate:    endDate,
		Phone:      req.Phone,
		TotalPrice: totalPrice,
		Status:     models.RentalPending,
	}

	// The hold on the car is a compare-and-swap: if another request slipped in
	// since our read, nothing is written and the caller gets a conflict.
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Car{}).
			Where("id = ? AND availability = ?", car.ID, models.CarAvailable).
			Update("availability", models.CarUnavailable)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errTransitionConflict
		}
		if err := tx.Create(&rental).Error; err != nil {
			return err
		}
		history := models.RentalStatusHistory{
			RentalID:  rental.ID,
			ToStatus:  models.RentalPending,
			ChangedBy: userID,
			Note:      "Rental request submitted",
		}
		return tx.Create(&history).Error
	})
	if errors.Is(err, errTransitionConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "Car was just taken by another request"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create rental request"})
		return
	}

	config.DB.Preload("Car").First(&rental, rental.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "Rental request submitted", "rental": rental})
}

// GetMyRentals returns all rental requests of the logged-in user
func GetMyRentals(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var rentals []models.RentalRequest
	config.DB.Preload("Car").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&rentals)
	c.JSON(http.StatusOK, gin.H{"count": len(rentals), "rentals": rentals})
}

// CancelRental cancels the caller's own rental while pending or approved.
// Cancelling releases the car back to available.
func CancelRental(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var rental models.RentalRequest
	if err := config.DB.First(&rental, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rental not found"})
		return
	}
	if rental.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This rental does not belong to you"})
		return
	}

	if err := statemachine.CanTransition(rental.Status, models.RentalCancelled, statemachine.ActorUser); err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":          "Cannot cancel rental",
			"reason":         err.Error(),
			"current_status": rental.Status,
		})
		return
	}

	err := applyTransition(&rental, models.RentalCancelled, userID, "Rental cancelled by user")
	if errors.Is(err, errTransitionConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "Rental status changed concurrently, refresh and retry"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel rental"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rental cancelled", "rental": rental})
}
