package main

import (
	"github.com/goodjobguy1234/LendItApi/app"
	"github.com/goodjobguy1234/LendItApi/config"
	"github.com/goodjobguy1234/LendItApi/routes"
)

func main() {
	config.LoadEnv()

	application := app.MustNew()
	defer application.Close()

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	routes.RegisterRoutes(r, application)

	application.Log.Infof("listening on :%s", application.Config.Port)
	_ = r.Run(":" + application.Config.Port)
}
