package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/hostel-server/config"
	"github.com/vnkhanh/hostel-server/models"
	"github.com/vnkhanh/hostel-server/utils"
)

const CtxHostel = "hostelObj"

// ParseID reads a positive integer path parameter.
func ParseID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, utils.BadRequest("Invalid %s", param)
	}
	return uint(id), nil
}

// LoadHostel loads the hostel named by the path parameter into the context,
// answering 404 when it does not exist. Permission checks happen afterwards.
func LoadHostel(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := ParseID(c, param)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		var h models.Hostel
		if err := config.DB.First(&h, id).Error; err != nil {
			utils.AbortWithError(c, utils.StoreError(err, "Hostel not found"))
			return
		}
		c.Set(CtxHostel, h)
		c.Next()
	}
}

func MustHostel(c *gin.Context) models.Hostel {
	return c.MustGet(CtxHostel).(models.Hostel)
}
