package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/hostel-server/config"
	"github.com/vnkhanh/hostel-server/middleware"
	"github.com/vnkhanh/hostel-server/models"
	"github.com/vnkhanh/hostel-server/policy"
	"github.com/vnkhanh/hostel-server/utils"
)

// GET /admin/hostels
func AdminListHostels(c *gin.Context) {
	if err := policy.Authorize(middleware.MustIdentity(c), policy.VerifyHostel, policy.Resource{}); err != nil {
		utils.AbortWithError(c, err)
		return
	}
	listHostels(c)
}

// PUT /admin/verify-hostel/:id
func VerifyHostel(c *gin.Context) {
	setVerified(c, true)
}

// PUT /admin/unverify-hostel/:id
func UnverifyHostel(c *gin.Context) {
	setVerified(c, false)
}

// setVerified flips is_verified. Asking for the value the hostel already has
// is an error, and the WHERE on the old value keeps that true under races.
func setVerified(c *gin.Context, verified bool) {
	h := middleware.MustHostel(c)
	if err := policy.Authorize(middleware.MustIdentity(c), policy.VerifyHostel, policy.ForHostel(h)); err != nil {
		utils.AbortWithError(c, err)
		return
	}

	res := config.DB.Model(&models.Hostel{}).
		Where("id = ? AND is_verified = ?", h.ID, !verified).
		Update("is_verified", verified)
	if res.Error != nil {
		utils.AbortWithError(c, utils.Internal(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		if verified {
			utils.AbortWithError(c, utils.BadRequest("Hostel is already verified"))
		} else {
			utils.AbortWithError(c, utils.BadRequest("Hostel is already unverified"))
		}
		return
	}

	if err := config.DB.First(&h, h.ID).Error; err != nil {
		utils.AbortWithError(c, utils.StoreError(err, "Hostel not found"))
		return
	}
	msg := "Hostel verified successfully"
	if !verified {
		msg = "Hostel unverified successfully"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "hostel": h})
}
