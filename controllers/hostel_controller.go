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

func contactFields(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email", "role", "contact_number")
}

func listHostels(c *gin.Context, scopes ...func(*gorm.DB) *gorm.DB) {
	var hostels []models.Hostel
	err := config.DB.Model(&models.Hostel{}).
		Scopes(scopes...).
		Preload("Owner", contactFields).
		Preload("Images").
		Order("hostels.id DESC").
		Find(&hostels).Error
	if err != nil {
		utils.AbortWithError(c, utils.Internal(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"hostels": hostels, "count": len(hostels)})
}

// GET /hostels
func ListHostels(c *gin.Context) {
	listHostels(c, policy.VisibleHostels(middleware.MustIdentity(c)))
}

// GET /hostels/search?city=&maxRent=&facility=
func SearchHostels(c *gin.Context) {
	filter, err := policy.ParseHostelFilter(c.Query("city"), c.Query("maxRent"), c.Query("facility"))
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	listHostels(c, policy.VisibleHostels(middleware.MustIdentity(c)), filter.Scope())
}

type ratingSummary struct {
	Avg   *float64
	Count int64
}

// GET /hostels/:id
func GetHostel(c *gin.Context) {
	h := middleware.MustHostel(c)
	if err := policy.Authorize(middleware.MustIdentity(c), policy.ViewHostel, policy.ForHostel(h)); err != nil {
		utils.AbortWithError(c, err)
		return
	}

	if err := config.DB.Preload("Owner", contactFields).Preload("Images").First(&h, h.ID).Error; err != nil {
		utils.AbortWithError(c, utils.StoreError(err, "Hostel not found"))
		return
	}

	var rs ratingSummary
	if err := config.DB.Model(&models.Review{}).
		Select("AVG(rating) AS avg, COUNT(*) AS count").
		Where("hostel_id = ?", h.ID).
		Scan(&rs).Error; err != nil {
		utils.AbortWithError(c, utils.Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hostel":         h,
		"average_rating": rs.Avg,
		"review_count":   rs.Count,
	})
}

type createHostelReq struct {
	Name       string `json:"name" binding:"required,notblank,max=150"`
	Address    string `json:"address" binding:"required,notblank,max=255"`
	City       string `json:"city" binding:"required,notblank,max=100"`
	Rent       *int   `json:"rent" binding:"required,gt=0"`
	Facilities string `json:"facilities"`
}

// POST /hostels
func CreateHostel(c *gin.Context) {
	actor := middleware.MustIdentity(c)
	if err := policy.Authorize(actor, policy.CreateHostel, policy.Resource{}); err != nil {
		utils.AbortWithError(c, err)
		return
	}

	var req createHostelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.AbortWithError(c, utils.BindError(err))
		return
	}

	h := models.Hostel{
		Name:       strings.TrimSpace(req.Name),
		Address:    strings.TrimSpace(req.Address),
		City:       strings.TrimSpace(req.City),
		Rent:       *req.Rent,
		Facilities: strings.TrimSpace(req.Facilities),
		OwnerID:    actor.ID,
		IsVerified: false,
	}
	if err := config.DB.Create(&h).Error; err != nil {
		utils.AbortWithError(c, utils.Internal(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Hostel created successfully, awaiting admin verification",
		"hostel":  h,
	})
}

// PUT /hostels/:id
func UpdateHostel(c *gin.Context) {
	h := middleware.MustHostel(c)
	if err := policy.Authorize(middleware.MustIdentity(c), policy.UpdateHostel, policy.ForHostel(h)); err != nil {
		utils.AbortWithError(c, err)
		return
	}

	var patch models.HostelPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.AbortWithError(c, utils.BindError(err))
		return
	}
	if err := patch.Validate(); err != nil {
		utils.AbortWithError(c, utils.BadRequest("%s", err.Error()))
		return
	}

	fields := patch.ApplyTo(&h)
	if err := config.DB.Model(&h).Select(fields).Updates(&h).Error; err != nil {
		utils.AbortWithError(c, utils.Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Hostel updated successfully",
		"hostel":  h,
	})
}

// DELETE /hostels/:id
func DeleteHostel(c *gin.Context) {
	h := middleware.MustHostel(c)
	if err := policy.Authorize(middleware.MustIdentity(c), policy.DeleteHostel, policy.ForHostel(h)); err != nil {
		utils.AbortWithError(c, err)
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{&models.Booking{}, &models.Review{}, &models.Enquiry{}, &models.HostelImage{}} {
			if err := tx.Where("hostel_id = ?", h.ID).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Hostel{}, h.ID).Error
	})
	if err != nil {
		utils.AbortWithError(c, utils.Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Hostel deleted successfully"})
}
