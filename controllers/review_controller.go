package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/hostel-server/config"
	"github.com/vnkhanh/hostel-server/middleware"
	"github.com/vnkhanh/hostel-server/models"
	"github.com/vnkhanh/hostel-server/policy"
	"github.com/vnkhanh/hostel-server/utils"
)

type createReviewReq struct {
	HostelID uint    `json:"hostel_id" binding:"required,gt=0"`
	Rating   *int    `json:"rating" binding:"required,min=1,max=5"`
	Comment  *string `json:"comment" binding:"omitempty,max=2000"`
}

// POST /reviews
func CreateReview(c *gin.Context) {
	actor := middleware.MustIdentity(c)

	var req createReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.AbortWithError(c, utils.BindError(err))
		return
	}

	var h models.Hostel
	if err := config.DB.First(&h, req.HostelID).Error; err != nil {
		utils.AbortWithError(c, utils.StoreError(err, "Hostel not found"))
		return
	}
	if err := policy.Authorize(actor, policy.CreateReview, policy.ForHostel(h)); err != nil {
		utils.AbortWithError(c, err)
		return
	}

	review := models.Review{
		HostelID:  h.ID,
		StudentID: actor.ID,
		Rating:    *req.Rating,
		Comment:   trimmedOrNil(req.Comment),
	}
	if err := config.DB.Create(&review).Error; err != nil {
		utils.AbortWithError(c, utils.Internal(err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Review submitted successfully",
		"review":  review,
	})
}

func publicUser(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name")
}

func publicHostel(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "city")
}

// GET /reviews/hostel/:hostelId
func ListHostelReviews(c *gin.Context) {
	hostelID, err := middleware.ParseID(c, "hostelId")
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	var reviews []models.Review
	if err := config.DB.
		Where("hostel_id = ?", hostelID).
		Preload("Student", publicUser).
		Order("id DESC").
		Find(&reviews).Error; err != nil {
		utils.AbortWithError(c, utils.Internal(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "count": len(reviews)})
}

// GET /reviews/student/:studentId
func ListStudentReviews(c *gin.Context) {
	studentID, err := middleware.ParseID(c, "studentId")
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	var reviews []models.Review
	if err := config.DB.
		Where("student_id = ?", studentID).
		Preload("Hostel", publicHostel).
		Order("id DESC").
		Find(&reviews).Error; err != nil {
		utils.AbortWithError(c, utils.Internal(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "count": len(reviews)})
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
