package main

import (
	"github.com/teamlog/logcabin/config"
	"github.com/teamlog/logcabin/models"
	"github.com/teamlog/logcabin/routes"
	"github.com/teamlog/logcabin/services"
	"github.com/teamlog/logcabin/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	clock, err := services.NewClock(cfg.ReferenceTimezone)
	if err != nil {
		utils.Sugar.Fatalf("invalid reference timezone: %v", err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Project{},
		&models.TeamMember{},
		&models.ProjectHouse{},
		&models.Log{},
		&models.Memo{},
		&models.TagStyle{},
		&models.Tagging{},
	)

	r := routes.SetupRouter(db, clock)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
