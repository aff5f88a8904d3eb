package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/hostel-server/config"
	"github.com/vnkhanh/hostel-server/middleware"
	"github.com/vnkhanh/hostel-server/models"
	"github.com/vnkhanh/hostel-server/policy"
	"github.com/vnkhanh/hostel-server/utils"
)

type createBookingReq struct {
	HostelID uint `json:"hostel_id" binding:"required,gt=0"`
}

// POST /bookings
func CreateBooking(c *gin.Context) {
	actor := middleware.MustIdentity(c)

	var req createBookingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.AbortWithError(c, utils.BindError(err))
		return
	}

	var booking models.Booking
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var h models.Hostel
		if err := tx.First(&h, req.HostelID).Error; err != nil {
			return utils.StoreError(err, "Hostel not found")
		}
		if err := policy.Authorize(actor, policy.CreateBooking, policy.ForHostel(h)); err != nil {
			return err
		}

		var open int64
		if err := tx.Model(&models.Booking{}).
			Where("hostel_id = ? AND student_id = ? AND status IN ?", h.ID, actor.ID,
				[]models.BookingStatus{models.BookingPending, models.BookingConfirmed}).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return utils.BadRequest("You already have an active booking for this hostel")
		}

		booking = models.Booking{HostelID: h.ID, StudentID: actor.ID, Status: models.BookingPending}
		return tx.Create(&booking).Error
	})
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking created successfully",
		"booking": booking,
	})
}

// GET /bookings/student
func ListStudentBookings(c *gin.Context) {
	actor := middleware.MustIdentity(c)

	var bookings []models.Booking
	if err := config.DB.
		Where("student_id = ?", actor.ID).
		Preload("Hostel").
		Preload("Hostel.Owner", contactFields).
		Order("id DESC").
		Find(&bookings).Error; err != nil {
		utils.AbortWithError(c, utils.Internal(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

// GET /bookings/hostel/:hostelId
func ListHostelBookings(c *gin.Context) {
	h := middleware.MustHostel(c)
	if err := policy.Authorize(middleware.MustIdentity(c), policy.ViewHostelBookings, policy.ForHostel(h)); err != nil {
		utils.AbortWithError(c, err)
		return
	}

	var bookings []models.Booking
	if err := config.DB.
		Where("hostel_id = ?", h.ID).
		Preload("Student", contactFields).
		Order("id DESC").
		Find(&bookings).Error; err != nil {
		utils.AbortWithError(c, utils.Internal(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

type updateBookingReq struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled"`
}

// PUT /bookings/:id
func UpdateBookingStatus(c *gin.Context) {
	actor := middleware.MustIdentity(c)

	id, err := middleware.ParseID(c, "id")
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	var req updateBookingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.AbortWithError(c, utils.BindError(err))
		return
	}
	target := models.BookingStatus(req.Status)

	var booking models.Booking
	if err := config.DB.Preload("Hostel").First(&booking, id).Error; err != nil {
		utils.AbortWithError(c, utils.StoreError(err, "Booking not found"))
		return
	}
	if booking.Hostel == nil {
		utils.AbortWithError(c, utils.NotFound("Hostel not found"))
		return
	}

	if err := policy.CheckBookingTarget(actor, target); err != nil {
		utils.AbortWithError(c, err)
		return
	}

	res := policy.Resource{
		HostelOwnerID:  booking.Hostel.OwnerID,
		HostelVerified: booking.Hostel.IsVerified,
		StudentID:      booking.StudentID,
	}
	if err := policy.Authorize(actor, policy.UpdateBooking, res); err != nil {
		utils.AbortWithError(c, err)
		return
	}
	if err := policy.CheckBookingTransition(actor, booking.Status, target); err != nil {
		utils.AbortWithError(c, err)
		return
	}

	upd := config.DB.Model(&models.Booking{}).
		Where("id = ? AND status = ?", booking.ID, booking.Status).
		Update("status", target)
	if upd.Error != nil {
		utils.AbortWithError(c, utils.Internal(upd.Error))
		return
	}
	if upd.RowsAffected == 0 {
		utils.AbortWithError(c, utils.Conflict("Booking was changed by another request, please retry"))
		return
	}
	booking.Status = target
	booking.Hostel = nil

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking status updated",
		"booking": booking,
	})
}

// DELETE /bookings/:id
func DeleteBooking(c *gin.Context) {
	id, err := middleware.ParseID(c, "id")
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}

	var booking models.Booking
	if err := config.DB.First(&booking, id).Error; err != nil {
		utils.AbortWithError(c, utils.StoreError(err, "Booking not found"))
		return
	}
	if err := policy.Authorize(middleware.MustIdentity(c), policy.DeleteBooking, policy.Resource{StudentID: booking.StudentID}); err != nil {
		utils.AbortWithError(c, err)
		return
	}

	if err := config.DB.Delete(&models.Booking{}, booking.ID).Error; err != nil {
		utils.AbortWithError(c, utils.Internal(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted successfully"})
}
