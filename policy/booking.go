package policy

import (
	"github.com/vnkhanh/hostel-server/models"
	"github.com/vnkhanh/hostel-server/utils"
)

// targets lists the statuses each role may request.
var targets = map[models.Role][]models.BookingStatus{
	models.RoleStudent: {models.BookingCancelled},
	models.RoleOwner:   {models.BookingConfirmed, models.BookingCancelled},
}

// transitions lists, per role, the states from which each target is reachable.
var transitions = map[models.Role]map[models.BookingStatus][]models.BookingStatus{
	models.RoleStudent: {
		models.BookingCancelled: {models.BookingPending},
	},
	models.RoleOwner: {
		models.BookingConfirmed: {models.BookingPending},
		models.BookingCancelled: {models.BookingPending, models.BookingConfirmed},
	},
}

// AllowedTargets returns the statuses actor may request on a booking.
func AllowedTargets(role models.Role) []models.BookingStatus {
	return targets[role]
}

// CheckBookingTarget rejects statuses the actor's role may never request.
func CheckBookingTarget(actor models.Identity, to models.BookingStatus) error {
	if !to.Valid() {
		return utils.BadRequest("status must be one of: pending, confirmed, cancelled")
	}
	for _, s := range targets[actor.Role] {
		if s == to {
			return nil
		}
	}
	switch actor.Role {
	case models.RoleStudent:
		return utils.Forbidden("Students can only cancel bookings")
	case models.RoleOwner:
		return utils.Forbidden("Owners can only confirm or cancel bookings")
	}
	return utils.Forbidden("You cannot change booking status")
}

// CheckBookingTransition validates a status change from -> to requested by actor.
// Role restrictions yield 403, unreachable states yield 400.
func CheckBookingTransition(actor models.Identity, from, to models.BookingStatus) error {
	if err := CheckBookingTarget(actor, to); err != nil {
		return err
	}
	if from == models.BookingCancelled {
		return utils.BadRequest("Booking is already cancelled")
	}
	for _, s := range transitions[actor.Role][to] {
		if s == from {
			return nil
		}
	}
	return utils.BadRequest("Cannot change booking status from %s to %s", from, to)
}
