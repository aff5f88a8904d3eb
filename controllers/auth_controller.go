package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/hostel-server/config"
	"github.com/vnkhanh/hostel-server/middleware"
	"github.com/vnkhanh/hostel-server/models"
	"github.com/vnkhanh/hostel-server/utils"
)

var errEmailTaken = utils.Conflict("Email already registered")

type signupReq struct {
	Name          string  `json:"name" binding:"required,notblank,max=100"`
	Email         string  `json:"email" binding:"required,email,max=100"`
	Password      string  `json:"password" binding:"required,min=6,max=72"`
	Role          string  `json:"role" binding:"required,oneof=student owner admin"`
	ContactNumber *string `json:"contact_number" binding:"omitempty,max=30"`
}

// POST /auth/signup
func Signup(c *gin.Context) {
	var req signupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.AbortWithError(c, utils.BindError(err))
		return
	}

	var count int64
	if err := config.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		utils.AbortWithError(c, utils.Internal(err))
		return
	}
	if count > 0 {
		utils.AbortWithError(c, errEmailTaken)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.AbortWithError(c, utils.Internal(err))
		return
	}

	user := models.User{
		Name:          strings.TrimSpace(req.Name),
		Email:         req.Email,
		Password:      hash,
		Role:          models.Role(req.Role),
		ContactNumber: req.ContactNumber,
	}
	if err := createUser(config.DB, &user); err != nil {
		utils.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user.Identity(),
	})
}

// createUser inserts user; losing a race on the unique email index is a 409, not a 500.
func createUser(db *gorm.DB, user *models.User) error {
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errEmailTaken
		}
		return utils.Internal(err)
	}
	return nil
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/login checks a credential pair. Nothing is issued: protected
// routes expect the same pair on every request.
func Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.AbortWithError(c, middleware.ErrMissingCredentials)
		return
	}
	id, err := middleware.LookupIdentity(config.DB, req.Email, req.Password)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    id,
	})
}

// GET /auth/me
func Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": middleware.MustIdentity(c)})
}
