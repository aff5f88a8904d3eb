package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/hostel-server/config"
	"github.com/vnkhanh/hostel-server/middleware"
	"github.com/vnkhanh/hostel-server/models"
	"github.com/vnkhanh/hostel-server/policy"
	"github.com/vnkhanh/hostel-server/utils"
)

const maxImageSize = 5 << 20

// ImageStore receives hostel photos; routes.SetupRoutes wires it from config.
var ImageStore utils.ObjectStore

// POST /hostels/:id/images (multipart field "file")
func UploadHostelImage(c *gin.Context) {
	h := middleware.MustHostel(c)
	if err := policy.Authorize(middleware.MustIdentity(c), policy.ManageHostelImages, policy.ForHostel(h)); err != nil {
		utils.AbortWithError(c, err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		utils.AbortWithError(c, utils.BadRequest("file is required"))
		return
	}
	if fh.Size > maxImageSize {
		utils.AbortWithError(c, utils.BadRequest("file must be at most 5 MiB"))
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		utils.AbortWithError(c, utils.BadRequest("file must be an image"))
		return
	}
	if ImageStore == nil {
		utils.AbortWithError(c, &utils.HTTPError{Status: http.StatusServiceUnavailable, Message: "Image storage is not configured"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		utils.AbortWithError(c, utils.Internal(err))
		return
	}
	defer f.Close()

	objectPath := fmt.Sprintf("hostels/%d/%s%s", h.ID, uuid.NewString(), strings.ToLower(filepath.Ext(fh.Filename)))
	url, err := ImageStore.Upload(c.Request.Context(), objectPath, f, contentType)
	if err != nil {
		utils.AbortWithError(c, utils.Internal(fmt.Errorf("upload %s: %w", objectPath, err)))
		return
	}

	img := models.HostelImage{HostelID: h.ID, URL: url}
	if err := config.DB.Create(&img).Error; err != nil {
		utils.AbortWithError(c, utils.Internal(err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Image uploaded", "image": img})
}

// DELETE /hostels/:id/images/:imageId
func DeleteHostelImage(c *gin.Context) {
	h := middleware.MustHostel(c)
	if err := policy.Authorize(middleware.MustIdentity(c), policy.ManageHostelImages, policy.ForHostel(h)); err != nil {
		utils.AbortWithError(c, err)
		return
	}
	imageID, err := middleware.ParseID(c, "imageId")
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}

	res := config.DB.Where("id = ? AND hostel_id = ?", imageID, h.ID).Delete(&models.HostelImage{})
	if res.Error != nil {
		utils.AbortWithError(c, utils.Internal(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		utils.AbortWithError(c, utils.NotFound("Image not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image deleted"})
}
