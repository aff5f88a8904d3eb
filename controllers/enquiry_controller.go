package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/vnkhanh/hostel-server/config"
	"github.com/vnkhanh/hostel-server/middleware"
	"github.com/vnkhanh/hostel-server/models"
	"github.com/vnkhanh/hostel-server/policy"
	"github.com/vnkhanh/hostel-server/utils"
)

type createEnquiryReq struct {
	HostelID      uint    `json:"hostel_id" binding:"required,gt=0"`
	Type          string  `json:"type" binding:"required,oneof=enquiry schedule_visit"`
	Message       *string `json:"message" binding:"omitempty,max=2000"`
	ScheduledDate *string `json:"scheduled_date"`
}

// POST /enquiries
func CreateEnquiry(c *gin.Context) {
	actor := middleware.MustIdentity(c)

	var req createEnquiryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.AbortWithError(c, utils.BindError(err))
		return
	}

	enquiry := models.Enquiry{
		StudentID: actor.ID,
		Type:      models.EnquiryType(req.Type),
		Message:   trimmedOrNil(req.Message),
		Status:    models.EnquiryPending,
	}
	if enquiry.Type == models.EnquiryScheduleVisit {
		if req.ScheduledDate == nil || strings.TrimSpace(*req.ScheduledDate) == "" {
			utils.AbortWithError(c, utils.BadRequest("scheduled_date is required for schedule_visit enquiries"))
			return
		}
		day, err := utils.ParseDate(*req.ScheduledDate)
		if err != nil {
			utils.AbortWithError(c, utils.BadRequest("scheduled_date is invalid: %s", err.Error()))
			return
		}
		d := datatypes.Date(day)
		enquiry.ScheduledDate = &d
	}

	var h models.Hostel
	if err := config.DB.First(&h, req.HostelID).Error; err != nil {
		utils.AbortWithError(c, utils.StoreError(err, "Hostel not found"))
		return
	}
	if err := policy.Authorize(actor, policy.CreateEnquiry, policy.ForHostel(h)); err != nil {
		utils.AbortWithError(c, err)
		return
	}

	enquiry.HostelID = h.ID
	if err := config.DB.Create(&enquiry).Error; err != nil {
		utils.AbortWithError(c, utils.Internal(err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Enquiry sent successfully",
		"enquiry": enquiry,
	})
}

// GET /enquiries/hostel/:hostelId
func ListHostelEnquiries(c *gin.Context) {
	h := middleware.MustHostel(c)
	if err := policy.Authorize(middleware.MustIdentity(c), policy.ViewHostelEnquiries, policy.ForHostel(h)); err != nil {
		utils.AbortWithError(c, err)
		return
	}

	var enquiries []models.Enquiry
	if err := config.DB.
		Where("hostel_id = ?", h.ID).
		Preload("Student", contactFields).
		Order("id DESC").
		Find(&enquiries).Error; err != nil {
		utils.AbortWithError(c, utils.Internal(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"enquiries": enquiries, "count": len(enquiries)})
}

// GET /enquiries/owner
func ListOwnerEnquiries(c *gin.Context) {
	actor := middleware.MustIdentity(c)

	var enquiries []models.Enquiry
	if err := config.DB.
		Joins("JOIN hostels ON hostels.id = enquiries.hostel_id").
		Where("hostels.owner_id = ?", actor.ID).
		Preload("Hostel", publicHostel).
		Preload("Student", contactFields).
		Order("enquiries.id DESC").
		Find(&enquiries).Error; err != nil {
		utils.AbortWithError(c, utils.Internal(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"enquiries": enquiries, "count": len(enquiries)})
}

// GET /enquiries/student
func ListStudentEnquiries(c *gin.Context) {
	actor := middleware.MustIdentity(c)

	var enquiries []models.Enquiry
	if err := config.DB.
		Where("student_id = ?", actor.ID).
		Preload("Hostel", publicHostel).
		Order("id DESC").
		Find(&enquiries).Error; err != nil {
		utils.AbortWithError(c, utils.Internal(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"enquiries": enquiries, "count": len(enquiries)})
}

type replyEnquiryReq struct {
	Reply string `json:"reply" binding:"required,notblank,max=2000"`
}

// PUT /enquiries/:id/reply. A later reply overwrites the earlier one.
func ReplyEnquiry(c *gin.Context) {
	actor := middleware.MustIdentity(c)

	id, err := middleware.ParseID(c, "id")
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	var req replyEnquiryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.AbortWithError(c, utils.BindError(err))
		return
	}

	var enquiry models.Enquiry
	if err := config.DB.Preload("Hostel").First(&enquiry, id).Error; err != nil {
		utils.AbortWithError(c, utils.StoreError(err, "Enquiry not found"))
		return
	}
	if enquiry.Hostel == nil {
		utils.AbortWithError(c, utils.NotFound("Hostel not found"))
		return
	}
	if err := policy.Authorize(actor, policy.ReplyEnquiry, policy.ForHostel(*enquiry.Hostel)); err != nil {
		utils.AbortWithError(c, err)
		return
	}

	reply := strings.TrimSpace(req.Reply)
	now := time.Now()
	if err := config.DB.Model(&models.Enquiry{}).
		Where("id = ?", enquiry.ID).
		Updates(map[string]interface{}{
			"reply":      reply,
			"status":     models.EnquiryResponded,
			"replied_at": now,
		}).Error; err != nil {
		utils.AbortWithError(c, utils.Internal(err))
		return
	}
	enquiry.Reply = &reply
	enquiry.Status = models.EnquiryResponded
	enquiry.RepliedAt = &now
	enquiry.Hostel = nil

	c.JSON(http.StatusOK, gin.H{
		"message": "Reply sent successfully",
		"enquiry": enquiry,
	})
}
