package handlers

import (
	"errors"

	"car-rental-api/config"
	"car-rental-api/models"
	"car-rental-api/statemachine"

	"gorm.io/gorm"
)

// errTransitionConflict signals a lost first-committer-wins race: the rental
// left the expected status between our read and our write.
var errTransitionConflict = errors.New("rental status changed concurrently")

// applyTransition moves a rental from its current status to the target one
// with a compare-and-swap on the status column, applies the car availability
// side effect and records history, all in one transaction. Exactly one of two
// concurrent writers commits; the loser gets errTransitionConflict and no
// side effects are applied.
//
// Releasing the car back to available only happens when this rental is its
// last active claim. Admin overrides can transition an already-settled rental
// while a newer one holds the car; that newer hold must survive.
func applyTransition(rental *models.RentalRequest, to models.RentalStatus, changedBy uint, note string) error {
	from := rental.Status
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RentalRequest{}).
			Where("id = ? AND status = ?", rental.ID, from).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errTransitionConflict
		}

		if availability, ok := statemachine.AvailabilityAfter(to); ok {
			apply := true
			if availability == models.CarAvailable {
				var holders int64
				if err := tx.Model(&models.RentalRequest{}).
					Where("car_id = ? AND id <> ? AND status IN ?", rental.CarID, rental.ID,
						[]models.RentalStatus{models.RentalPending, models.RentalApproved}).
					Count(&holders).Error; err != nil {
					return err
				}
				apply = holders == 0
			}
			if apply {
				if err := tx.Model(&models.Car{}).
					Where("id = ? AND kind = ?", rental.CarID, models.ListingRent).
					Update("availability", availability).Error; err != nil {
					return err
				}
			}
		}

		history := models.RentalStatusHistory{
			RentalID:   rental.ID,
			FromStatus: from,
			ToStatus:   to,
			ChangedBy:  changedBy,
			Note:       note,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return err
	}
	rental.Status = to
	return nil
}
