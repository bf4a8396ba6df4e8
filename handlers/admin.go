package handlers

import (
	"errors"
	"net/http"

	"car-rental-api/config"
	"car-rental-api/middleware"
	"car-rental-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ── Dealer approval workflow ────────────────────────────────────────────────

type DealerRequestBody struct {
	Phone       string `json:"phone" binding:"required,bhphone"`
	Description string `json:"description" binding:"required"`
}

// RequestDealer lets a plain user apply for a dealer upgrade
func RequestDealer(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.Role != models.RoleUser {
		c.JSON(http.StatusConflict, gin.H{"error": "Only plain users can request a dealer upgrade"})
		return
	}

	var pending models.DealerApprovalRequest
	if err := config.DB.
		Where("user_id = ? AND status = ?", userID, models.ApprovalPending).
		First(&pending).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already have a pending dealer request"})
		return
	}

	var req DealerRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	approval := models.DealerApprovalRequest{
		UserID:      userID,
		Phone:       req.Phone,
		Description: req.Description,
		Status:      models.ApprovalPending,
	}
	if err := config.DB.Create(&approval).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create dealer request"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Dealer request submitted", "request": approval})
}

// GetPendingDealerRequests lists all undecided dealer requests — admin only
func GetPendingDealerRequests(c *gin.Context) {
	var requests []models.DealerApprovalRequest
	config.DB.Preload("User").
		Where("status = ?", models.ApprovalPending).
		Order("created_at asc").
		Find(&requests)
	c.JSON(http.StatusOK, gin.H{"count": len(requests), "requests": requests})
}

type UpdateApprovalStatusRequest struct {
	Status models.ApprovalStatus `json:"status" binding:"required,oneof=approved rejected"`
}

// UpdateApprovalStatus decides a pending dealer request. Approval promotes
// the user to dealer in the same transaction; both outcomes are terminal.
// The decision is a compare-and-swap on pending, so two admins racing on the
// same request produce exactly one result.
func UpdateApprovalStatus(c *gin.Context) {
	var approval models.DealerApprovalRequest
	if err := config.DB.First(&approval, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dealer request not found"})
		return
	}

	var req UpdateApprovalStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if approval.Status != models.ApprovalPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Dealer request has already been decided", "current_status": approval.Status})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.DealerApprovalRequest{}).
			Where("id = ? AND status = ?", approval.ID, models.ApprovalPending).
			Update("status", req.Status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errTransitionConflict
		}
		if req.Status == models.ApprovalApproved {
			return tx.Model(&models.User{}).
				Where("id = ? AND role = ?", approval.UserID, models.RoleUser).
				Update("role", models.RoleDealer).Error
		}
		return nil
	})
	if errors.Is(err, errTransitionConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "Dealer request was decided concurrently"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update dealer request"})
		return
	}

	approval.Status = req.Status
	c.JSON(http.StatusOK, gin.H{"message": "Dealer request " + string(req.Status), "request": approval})
}

// DeleteApprovalRequest removes a dealer request record — admin only
func DeleteApprovalRequest(c *gin.Context) {
	var approval models.DealerApprovalRequest
	if err := config.DB.First(&approval, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dealer request not found"})
		return
	}
	config.DB.Delete(&approval)
	c.JSON(http.StatusOK, gin.H{"message": "Dealer request deleted"})
}

// GetApprovedDealers lists all users currently holding the dealer role
func GetApprovedDealers(c *gin.Context) {
	var dealers []models.User
	config.DB.Where("role = ?", models.RoleDealer).Find(&dealers)
	c.JSON(http.StatusOK, gin.H{"count": len(dealers), "dealers": dealers})
}

// DowngradeDealer reverts a dealer to a plain user. This acts directly on the
// role and bypasses the approval registry. Car ownership is immutable: the
// cars keep their dealer reference, but the downgraded user can no longer
// create or edit them since authorization checks the current role.
func DowngradeDealer(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.Param("userId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.Role != models.RoleDealer {
		c.JSON(http.StatusConflict, gin.H{"error": "User is not a dealer", "current_role": user.Role})
		return
	}

	if err := config.DB.Model(&user).Update("role", models.RoleUser).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to downgrade dealer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dealer downgraded to user", "user": user})
}

// ── User moderation ─────────────────────────────────────────────────────────

// GetAllUsers returns every account — admin only
func GetAllUsers(c *gin.Context) {
	var users []models.User
	query := config.DB
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	query.Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// DeleteUser removes an account — admin only, never the caller's own.
// Accounts still owning listings or holding active rentals are refused so no
// car or rental ends up referencing a missing user; settled rentals and sale
// records stay as history.
func DeleteUser(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.Param("userId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.ID == middleware.GetUserID(c) {
		c.JSON(http.StatusConflict, gin.H{"error": "You cannot delete your own account"})
		return
	}

	var owned int64
	config.DB.Model(&models.Car{}).Where("dealer_id = ?", user.ID).Count(&owned)
	if owned > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "User still owns car listings"})
		return
	}
	var active int64
	config.DB.Model(&models.RentalRequest{}).
		Where("user_id = ? AND status IN ?", user.ID,
			[]models.RentalStatus{models.RentalPending, models.RentalApproved}).
		Count(&active)
	if active > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "User has active rental requests"})
		return
	}

	config.DB.Where("user_id = ?", user.ID).Delete(&models.DealerApprovalRequest{})
	config.DB.Where("author_id = ?", user.ID).Delete(&models.Review{})
	config.DB.Delete(&user)
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

type UpdateUserRoleRequest struct {
	Role models.UserRole `json:"role" binding:"required"`
}

// UpdateUserRole promotes or demotes an account — admin only
func UpdateUserRole(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.Param("userId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var req UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Must be: user, dealer, or admin"})
		return
	}

	if err := config.DB.Model(&user).Update("role", req.Role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated", "user": user})
}

// ── Rental moderation ───────────────────────────────────────────────────────

// GetAllRentals returns every rental with a status summary — admin only
func GetAllRentals(c *gin.Context) {
	var rentals []models.RentalRequest
	query := config.DB.Preload("Car").Preload("User")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	query.Order("created_at desc").Find(&rentals)

	summary := map[string]int{}
	var revenue float64
	for _, r := range rentals {
		summary[string(r.Status)]++
		if r.Status == models.RentalCompleted {
			revenue += r.TotalPrice
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"rental_summary": summary,
		"total_revenue":  revenue,
		"count":          len(rentals),
		"rentals":        rentals,
	})
}

// ForceRentalStatus lets an admin override any rental state (emergency use).
// The write is still serialized against concurrent transitions, and the car's
// availability follows the forced status.
func ForceRentalStatus(c *gin.Context) {
	adminID := middleware.GetUserID(c)

	var rental models.RentalRequest
	if err := config.DB.First(&rental, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rental not found"})
		return
	}

	var req struct {
		Status models.RentalStatus `json:"status" binding:"required,oneof=pending approved rejected completed cancelled"`
		Reason string              `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prevStatus := rental.Status
	err := applyTransition(&rental, req.Status, adminID, "[ADMIN OVERRIDE] "+req.Reason)
	if errors.Is(err, errTransitionConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "Rental status changed concurrently, refresh and retry"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to force rental status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Rental status force-updated by admin",
		"rental":          rental,
		"previous_status": prevStatus,
		"new_status":      req.Status,
	})
}
