package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/hostel-server/config"
	"github.com/vnkhanh/hostel-server/controllers"
	"github.com/vnkhanh/hostel-server/middleware"
	"github.com/vnkhanh/hostel-server/models"
	"github.com/vnkhanh/hostel-server/utils"
)

// NewRouter builds the engine with logging, recovery, CORS and all routes.
func NewRouter(s config.Settings) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), gin.Logger(), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.HeaderEmail, middleware.HeaderPassword, middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		panic(err)
	}

	SetupRoutes(r, s)
	return r
}

func SetupRoutes(r *gin.Engine, s config.Settings) {
	utils.RegisterValidators()

	if store := utils.NewSupabaseStore(s.SupabaseURL, s.SupabaseKey, s.SupabaseBucket); store != nil {
		controllers.ImageStore = store
	}
	if s.ExportDir != "" {
		controllers.ExportDir = s.ExportDir
	}

	perMin, burst := s.AuthRatePerMin, s.AuthRateBurst
	if perMin <= 0 {
		perMin = 10
	}
	if burst <= 0 {
		burst = 5
	}
	authLimiter := middleware.NewIPRateLimiter(perMin, burst, 10*time.Minute)

	student := middleware.RequireRole(models.RoleStudent)
	owner := middleware.RequireRole(models.RoleOwner)
	admin := middleware.RequireRole(models.RoleAdmin)

	r.GET("/health", controllers.HealthCheck)

	auth := r.Group("/auth")
	{
		auth.POST("/signup", middleware.RateLimitByIP(authLimiter), controllers.Signup)
		auth.POST("/login", middleware.RateLimitByIP(authLimiter), controllers.Login)
		auth.GET("/me", middleware.Authenticate(), controllers.Me)
	}

	hostels := r.Group("/hostels", middleware.Authenticate())
	{
		hostels.GET("", controllers.ListHostels)
		hostels.GET("/search", controllers.SearchHostels)
		hostels.GET("/:id", middleware.LoadHostel("id"), controllers.GetHostel)
		hostels.POST("", owner, controllers.CreateHostel)
		hostels.PUT("/:id", middleware.LoadHostel("id"), owner, controllers.UpdateHostel)
		hostels.DELETE("/:id", middleware.LoadHostel("id"), owner, controllers.DeleteHostel)
		hostels.POST("/:id/images", middleware.LoadHostel("id"), owner, controllers.UploadHostelImage)
		hostels.DELETE("/:id/images/:imageId", middleware.LoadHostel("id"), owner, controllers.DeleteHostelImage)
	}

	adminGroup := r.Group("/admin", middleware.Authenticate())
	{
		adminGroup.GET("/hostels", admin, controllers.AdminListHostels)
		adminGroup.PUT("/verify-hostel/:id", middleware.LoadHostel("id"), admin, controllers.VerifyHostel)
		adminGroup.PUT("/unverify-hostel/:id", middleware.LoadHostel("id"), admin, controllers.UnverifyHostel)
		adminGroup.POST("/exports", admin, controllers.CreateExport)
		adminGroup.GET("/exports/:job_id", admin, controllers.GetExport)
	}

	// Booking status changes and deletes are role-checked by policy after the
	// booking is loaded, so a missing booking is a 404 for everyone.
	bookings := r.Group("/bookings", middleware.Authenticate())
	{
		bookings.POST("", student, controllers.CreateBooking)
		bookings.GET("/student", student, controllers.ListStudentBookings)
		bookings.GET("/hostel/:hostelId", middleware.LoadHostel("hostelId"), owner, controllers.ListHostelBookings)
		bookings.PUT("/:id", controllers.UpdateBookingStatus)
		bookings.DELETE("/:id", controllers.DeleteBooking)
	}

	reviews := r.Group("/reviews")
	{
		reviews.POST("", middleware.Authenticate(), student, controllers.CreateReview)
		reviews.GET("/hostel/:hostelId", controllers.ListHostelReviews)
		reviews.GET("/student/:studentId", controllers.ListStudentReviews)
	}

	enquiries := r.Group("/enquiries", middleware.Authenticate())
	{
		enquiries.POST("", student, controllers.CreateEnquiry)
		enquiries.GET("/hostel/:hostelId", middleware.LoadHostel("hostelId"), owner, controllers.ListHostelEnquiries)
		enquiries.GET("/owner", owner, controllers.ListOwnerEnquiries)
		enquiries.GET("/student", student, controllers.ListStudentEnquiries)
		enquiries.PUT("/:id/reply", controllers.ReplyEnquiry)
	}
}
