package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"car-rental-api/config"
	"car-rental-api/listing"
	"car-rental-api/models"
	"car-rental-api/statemachine"

	"github.com/gin-gonic/gin"
)

// ListCars returns all listings, filtered and sorted per query params (public).
// Filtering is a pure conjunction: search substring on brand/model, listing
// kind, accessibility flag, inclusive mileage range; then an optional stable
// sort by effective price.
func ListCars(c *gin.Context) {
	var cars []models.Car
	config.DB.Preload("Images").Order("created_at desc").Find(&cars)

	f := listing.Filter{
		Search:           c.Query("search"),
		HandicapFriendly: c.Query("handicap") == "true",
	}
	switch kind := c.Query("kind"); kind {
	case string(models.ListingRent), string(models.ListingSale):
		f.Kind = models.ListingKind(kind)
	}
	if raw := c.Query("min_mileage"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			f.MinMileage = &v
		}
	}
	if raw := c.Query("max_mileage"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			f.MaxMileage = &v
		}
	}

	cars = listing.Apply(cars, f)

	switch c.Query("sort") {
	case "price_asc":
		cars = listing.SortByPrice(cars, false)
	case "price_desc":
		cars = listing.SortByPrice(cars, true)
	}

	c.JSON(http.StatusOK, gin.H{"count": len(cars), "cars": cars})
}

// GetCar returns a single car with images, reviews and dealer (public).
// The response carries a weak ETag derived from the record version so polling
// clients can detect staleness; If-None-Match short-circuits to 304.
func GetCar(c *gin.Context) {
	var car models.Car
	if err := config.DB.
		Preload("Images").
		Preload("Reviews.Author").
		Preload("Dealer").
		First(&car, c.Param("carId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
		return
	}

	etag := fmt.Sprintf(`W/"car-%d-%d"`, car.ID, car.UpdatedAt.UnixNano())
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Header("ETag", etag)
	c.JSON(http.StatusOK, gin.H{"car": car})
}

// GetStateMachineInfo returns the rental lifecycle for informational purposes
func GetStateMachineInfo(c *gin.Context) {
	var info []gin.H
	for _, t := range statemachine.GetAllTransitions() {
		info = append(info, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": []models.RentalStatus{models.RentalRejected, models.RentalCompleted, models.RentalCancelled},
		"description":     "Car Rental Lifecycle State Machine",
	})
}
