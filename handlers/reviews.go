package handlers

import (
	"net/http"

	"car-rental-api/config"
	"car-rental-api/middleware"
	"car-rental-api/models"

	"github.com/gin-gonic/gin"
)

type AddReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// AddReview posts a review on a car (any authenticated user)
func AddReview(c *gin.Context) {
	authorID := middleware.GetUserID(c)

	var car models.Car
	if err := config.DB.First(&car, c.Param("carId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
		return
	}

	var req AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review := models.Review{
		CarID:    car.ID,
		AuthorID: authorID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}
	if err := config.DB.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add review"})
		return
	}

	config.DB.Preload("Reviews.Author").First(&car, car.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "Review added", "car": car})
}

// DeleteReview removes a review (its author or an admin)
func DeleteReview(c *gin.Context) {
	var review models.Review
	if err := config.DB.
		Where("id = ? AND car_id = ?", c.Param("reviewId"), c.Param("carId")).
		First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	if review.AuthorID != middleware.GetUserID(c) && middleware.GetRole(c) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own reviews"})
		return
	}

	config.DB.Delete(&review)
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}
