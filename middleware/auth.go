package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/hostel-server/config"
	"github.com/vnkhanh/hostel-server/models"
	"github.com/vnkhanh/hostel-server/utils"
)

const (
	HeaderEmail    = "X-User-Email"
	HeaderPassword = "X-User-Password"
	CtxIdentity    = "identity"

	maxCredentialBody = 1 << 20
)

var (
	ErrMissingCredentials = utils.BadRequest("Email and password are required")
	ErrInvalidCredentials = utils.Unauthorized("Invalid email or password")
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ExtractCredentials reads email/password from the header pair, then the query
// string, then a JSON body, and uses the first source that names an email.
// The request body is left readable for the handler.
func ExtractCredentials(c *gin.Context) Credentials {
	if email := c.GetHeader(HeaderEmail); email != "" {
		return Credentials{Email: email, Password: c.GetHeader(HeaderPassword)}
	}
	if email := c.Query("email"); email != "" {
		return Credentials{Email: email, Password: c.Query("password")}
	}

	var creds Credentials
	if c.Request.Body == nil || !strings.HasPrefix(c.ContentType(), "application/json") {
		return creds
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCredentialBody))
	c.Request.Body.Close()
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return creds
	}
	_ = json.Unmarshal(raw, &creds)
	return creds
}

// LookupIdentity resolves a credential pair against the users table.
func LookupIdentity(db *gorm.DB, email, password string) (models.Identity, error) {
	if email == "" || password == "" {
		return models.Identity{}, ErrMissingCredentials
	}
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Identity{}, ErrInvalidCredentials
		}
		return models.Identity{}, utils.Internal(err)
	}
	if !utils.CheckPassword(user.Password, password) {
		return models.Identity{}, ErrInvalidCredentials
	}
	return user.Identity(), nil
}

// Authenticate resolves the caller on every request; there is no session.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		creds := ExtractCredentials(c)
		id, err := LookupIdentity(config.DB, creds.Email, creds.Password)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.Set(CtxIdentity, id)
		c.Next()
	}
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		for _, r := range roles {
			if id.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Access denied: requires role " + strings.Join(names, " or "),
		})
	}
}

func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(CtxIdentity)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}

// MustIdentity is for handlers mounted behind Authenticate.
func MustIdentity(c *gin.Context) models.Identity {
	return c.MustGet(CtxIdentity).(models.Identity)
}
