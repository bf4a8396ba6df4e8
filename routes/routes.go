package routes

import (
	"car-rental-api/handlers"
	"car-rental-api/middleware"
	"car-rental-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)

		// Listings (no auth needed)
		public.GET("/cars", handlers.ListCars)
		public.GET("/cars/:carId", handlers.GetCar)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes (any role) ────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)

		// Reviews
		auth.POST("/cars/:carId/reviews", handlers.AddReview)
		auth.DELETE("/cars/:carId/reviews/:reviewId", handlers.DeleteReview)

		// Sales visibility (buyer or dealer side)
		auth.GET("/sales", handlers.GetMySales)
		auth.GET("/sales/:id", handlers.GetSale)
	}

	// ── User routes ────────────────────────────────────────────────
	user := r.Group("/api")
	user.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleUser))
	{
		user.POST("/rentals/:carId", handlers.CreateRental)
		user.GET("/rentals/my-rentals", handlers.GetMyRentals)
		user.PUT("/rentals/:id/cancel", handlers.CancelRental)

		user.POST("/sales/:carId/buy", handlers.BuyCar)

		user.POST("/approval/request-dealer", handlers.RequestDealer)
	}

	// ── Dealer routes ──────────────────────────────────────────────
	// Role checks hit the database so a downgraded dealer loses these
	// endpoints immediately, even with a token issued before the downgrade.
	dealer := r.Group("/api")
	dealer.Use(middleware.AuthRequired(), middleware.CurrentRoleRequired(models.RoleDealer, models.RoleAdmin))
	{
		// Listing management
		dealer.POST("/cars", handlers.CreateCar)
		dealer.GET("/cars/my-cars", handlers.GetMyCars)
		dealer.PUT("/cars/:carId", handlers.UpdateCar)
		dealer.DELETE("/cars/:carId", handlers.DeleteCar)

		// Rental management
		dealer.GET("/rentals/dealer-rentals", handlers.GetDealerRentals)
		dealer.PUT("/rentals/:id/status", handlers.UpdateRentalStatus)
		dealer.DELETE("/rentals/:id", handlers.DeleteRental)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/approval")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		// Dealer approval registry
		admin.GET("/pending-dealer-requests", handlers.GetPendingDealerRequests)
		admin.PUT("/:id/status", handlers.UpdateApprovalStatus)
		admin.DELETE("/:id", handlers.DeleteApprovalRequest)
		admin.GET("/approved-dealers", handlers.GetApprovedDealers)
		admin.PUT("/downgrade-dealer/:userId", handlers.DowngradeDealer)

		// User moderation
		admin.GET("/all-users", handlers.GetAllUsers)
		admin.DELETE("/users/:userId", handlers.DeleteUser)
		admin.PUT("/users/:userId/role", handlers.UpdateUserRole)

		// Listing and rental moderation
		admin.GET("/cars", handlers.ListCars)
		admin.PUT("/cars/:carId", handlers.UpdateCar)
		admin.DELETE("/cars/:carId", handlers.DeleteCar)
		admin.GET("/rentals/all-rentals", handlers.GetAllRentals)
		admin.PUT("/rentals/:id/status", handlers.ForceRentalStatus)
		admin.DELETE("/rentals/:id", handlers.DeleteRental)
	}

	adminSales := r.Group("/api/sales")
	adminSales.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		adminSales.GET("/stats/admin", handlers.GetSalesStats)
	}
}
