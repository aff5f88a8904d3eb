// Package policy holds the role and ownership rules for every hostel, booking,
// review and enquiry operation. It has no transport or storage dependencies
// beyond the gorm scopes in scopes.go.
package policy

import (
	"github.com/vnkhanh/hostel-server/models"
	"github.com/vnkhanh/hostel-server/utils"
)

type Operation string

const (
	ListHostels         Operation = "list_hostels"
	ViewHostel          Operation = "view_hostel"
	CreateHostel        Operation = "create_hostel"
	UpdateHostel        Operation = "update_hostel"
	DeleteHostel        Operation = "delete_hostel"
	ManageHostelImages  Operation = "manage_hostel_images"
	VerifyHostel        Operation = "verify_hostel"
	CreateReview        Operation = "create_review"
	CreateBooking       Operation = "create_booking"
	UpdateBooking       Operation = "update_booking"
	DeleteBooking       Operation = "delete_booking"
	ViewHostelBookings  Operation = "view_hostel_bookings"
	CreateEnquiry       Operation = "create_enquiry"
	ReplyEnquiry        Operation = "reply_enquiry"
	ViewHostelEnquiries Operation = "view_hostel_enquiries"
	ExportData          Operation = "export_data"
)

// Resource describes what an operation touches. Zero fields are ignored by
// operations that do not need them.
type Resource struct {
	HostelOwnerID  uint
	HostelVerified bool
	StudentID      uint // student a booking or enquiry belongs to
}

// ForHostel builds the Resource for operations on h itself.
func ForHostel(h models.Hostel) Resource {
	return Resource{HostelOwnerID: h.OwnerID, HostelVerified: h.IsVerified}
}

// Authorize returns nil when actor may perform op on res, or a 403 carrying the reason.
func Authorize(actor models.Identity, op Operation, res Resource) error {
	switch op {
	case ListHostels:
		return nil

	case ViewHostel:
		switch actor.Role {
		case models.RoleAdmin:
			return nil
		case models.RoleOwner:
			if res.HostelOwnerID != actor.ID {
				return utils.Forbidden("You can only view your own hostels")
			}
			return nil
		case models.RoleStudent:
			if !res.HostelVerified {
				return utils.Forbidden("This hostel is not verified yet")
			}
			return nil
		}

	case CreateHostel:
		if actor.Role == models.RoleOwner {
			return nil
		}
		return utils.Forbidden("Only owners can create hostels")

	case UpdateHostel, DeleteHostel, ManageHostelImages:
		if actor.Role != models.RoleOwner {
			return utils.Forbidden("Only the hostel owner can modify this hostel")
		}
		if res.HostelOwnerID != actor.ID {
			return utils.Forbidden("You can only modify your own hostels")
		}
		return nil

	case VerifyHostel, ExportData:
		if actor.Role == models.RoleAdmin {
			return nil
		}
		return utils.Forbidden("Admin access required")

	case CreateReview, CreateEnquiry:
		// Only the student gate is enforced here; the route restricts the role.
		if actor.Role == models.RoleStudent && !res.HostelVerified {
			return utils.Forbidden("Hostel is not verified")
		}
		return nil

	case CreateBooking:
		if actor.Role != models.RoleStudent {
			return utils.Forbidden("Only students can book hostels")
		}
		if !res.HostelVerified {
			return utils.Forbidden("Cannot book an unverified hostel")
		}
		return nil

	case UpdateBooking:
		switch actor.Role {
		case models.RoleStudent:
			if res.StudentID != actor.ID {
				return utils.Forbidden("You can only update your own bookings")
			}
			return nil
		case models.RoleOwner:
			if res.HostelOwnerID != actor.ID {
				return utils.Forbidden("You can only manage bookings for your own hostels")
			}
			return nil
		}
		return utils.Forbidden("Only students and owners can update bookings")

	case DeleteBooking:
		if actor.Role != models.RoleStudent {
			return utils.Forbidden("Only students can delete bookings")
		}
		if res.StudentID != actor.ID {
			return utils.Forbidden("You can only delete your own bookings")
		}
		return nil

	case ViewHostelBookings, ViewHostelEnquiries, ReplyEnquiry:
		if actor.Role != models.RoleOwner {
			return utils.Forbidden("Only the hostel owner can access this")
		}
		if res.HostelOwnerID != actor.ID {
			return utils.Forbidden("This hostel does not belong to you")
		}
		return nil
	}
	return utils.Forbidden("Access denied")
}

// HostelVisible is the in-memory form of VisibleHostels.
func HostelVisible(actor models.Identity, h models.Hostel) bool {
	return Authorize(actor, ViewHostel, ForHostel(h)) == nil
}
