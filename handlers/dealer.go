package handlers

import (
	"errors"
	"net/http"

	"car-rental-api/config"
	"car-rental-api/middleware"
	"car-rental-api/models"
	"car-rental-api/statemachine"

	"github.com/gin-gonic/gin"
)

// dealerCarIDs returns the IDs of all cars owned by the given dealer.
func dealerCarIDs(dealerID uint) []uint {
	var ids []uint
	config.DB.Model(&models.Car{}).Where("dealer_id = ?", dealerID).Pluck("id", &ids)
	return ids
}

// GetDealerRentals returns all rental requests against the dealer's cars
func GetDealerRentals(c *gin.Context) {
	dealerID := middleware.GetUserID(c)

	carIDs := dealerCarIDs(dealerID)
	var rentals []models.RentalRequest
	query := config.DB.Preload("Car").Preload("User").
		Where("car_id IN ?", carIDs)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	query.Order("created_at desc").Find(&rentals)

	// Dashboard summary: counts grouped by status
	summary := map[string]int{}
	for _, r := range rentals {
		summary[string(r.Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"rental_summary": summary,
		"count":          len(rentals),
		"rentals":        rentals,
	})
}

type UpdateRentalStatusRequest struct {
	Status models.RentalStatus `json:"status" binding:"required"`
	Note   string              `json:"note"`
}

// UpdateRentalStatus handles the dealer's transitions: approve, reject,
// complete. Approving marks the car rented; rejecting or completing releases
// it. Concurrent decisions on the same pending rental are serialized so
// exactly one wins; the loser gets a conflict.
func UpdateRentalStatus(c *gin.Context) {
	dealerID := middleware.GetUserID(c)

	var rental models.RentalRequest
	if err := config.DB.Preload("Car").First(&rental, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rental not found"})
		return
	}
	if rental.Car.DealerID != dealerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This rental is not against one of your cars"})
		return
	}

	var req UpdateRentalStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := statemachine.CanTransition(rental.Status, req.Status, statemachine.ActorDealer); err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":             "Invalid state transition",
			"current_status":    rental.Status,
			"requested":         req.Status,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(rental.Status),
		})
		return
	}

	prevStatus := rental.Status
	err := applyTransition(&rental, req.Status, dealerID, req.Note)
	if errors.Is(err, errTransitionConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "Rental was decided concurrently, refresh and retry"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update rental status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Rental status updated",
		"rental":          rental,
		"previous_status": prevStatus,
		"current_status":  rental.Status,
	})
}

// DeleteRental removes a settled rental record (dealer of the car, or admin).
// Active rentals cannot be deleted; they must be driven to a terminal state.
func DeleteRental(c *gin.Context) {
	var rental models.RentalRequest
	if err := config.DB.Preload("Car").First(&rental, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rental not found"})
		return
	}
	if middleware.GetRole(c) != models.RoleAdmin && rental.Car.DealerID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "This rental is not against one of your cars"})
		return
	}
	if !statemachine.IsTerminal(rental.Status) {
		c.JSON(http.StatusConflict, gin.H{"error": "Only settled rentals can be deleted", "current_status": rental.Status})
		return
	}

	config.DB.Where("rental_id = ?", rental.ID).Delete(&models.RentalStatusHistory{})
	config.DB.Delete(&rental)
	c.JSON(http.StatusOK, gin.H{"message": "Rental deleted"})
}
