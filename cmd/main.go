package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/hostel-server/config"
	"github.com/vnkhanh/hostel-server/routes"
)

func main() {
	settings := config.Load()
	if settings.GinMode != "" {
		gin.SetMode(settings.GinMode)
	}

	if err := config.ConnectDB(settings); err != nil {
		log.Fatalf("failed to start: %v", err)
	}

	r := routes.NewRouter(settings)

	log.Printf("HostelGo server listening on port %s\n", settings.Port)
	if err := r.Run(":" + settings.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
