package handlers

import (
	"errors"
	"net/http"

	"car-rental-api/config"
	"car-rental-api/middleware"
	"car-rental-api/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BuyCar purchases a sale-kind car. The sold flag flips with a
// compare-and-swap so two concurrent buyers cannot both win.
func BuyCar(c *gin.Context) {
	buyerID := middleware.GetUserID(c)

	var car models.Car
	if err := config.DB.First(&car, c.Param("carId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
		return
	}
	if car.Kind != models.ListingSale {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Car is listed for rent, not for sale"})
		return
	}
	if car.DealerID == buyerID {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "You cannot buy your own car"})
		return
	}
	if car.IsSold {
		c.JSON(http.StatusConflict, gin.H{"error": "Car has already been sold"})
		return
	}

	sale := models.Sale{
		InvoiceNumber: uuid.NewString(),
		CarID:         car.ID,
		DealerID:      car.DealerID,
		BuyerID:       buyerID,
		Price:         car.SalePrice,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Car{}).
			Where("id = ? AND kind = ? AND is_sold = ?", car.ID, models.ListingSale, false).
			Updates(map[string]interface{}{"is_sold": true, "buyer_id": buyerID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errTransitionConflict
		}
		return tx.Create(&sale).Error
	})
	if errors.Is(err, errTransitionConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "Car was just bought by someone else"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record sale"})
		return
	}

	config.DB.Preload("Car").Preload("Dealer").First(&sale, sale.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "Car purchased", "sale": sale})
}

// GetMySales lists sales the caller took part in, as buyer or as dealer
func GetMySales(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var sales []models.Sale
	config.DB.Preload("Car").Preload("Buyer").Preload("Dealer").
		Where("buyer_id = ? OR dealer_id = ?", userID, userID).
		Order("created_at desc").
		Find(&sales)
	c.JSON(http.StatusOK, gin.H{"count": len(sales), "sales": sales})
}

// GetSale returns one sale record (participant or admin)
func GetSale(c *gin.Context) {
	var sale models.Sale
	if err := config.DB.Preload("Car").Preload("Buyer").Preload("Dealer").
		First(&sale, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
		return
	}

	userID := middleware.GetUserID(c)
	if sale.BuyerID != userID && sale.DealerID != userID && middleware.GetRole(c) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a party to this sale"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sale": sale})
}

// GetSalesStats returns marketplace totals — admin only
func GetSalesStats(c *gin.Context) {
	var sales []models.Sale
	config.DB.Find(&sales)

	var revenue float64
	for _, s := range sales {
		revenue += s.Price
	}
	c.JSON(http.StatusOK, gin.H{
		"total_sales":   len(sales),
		"total_revenue": revenue,
	})
}
