package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/clinicbill/internal/middleware"
)

type RouterDeps struct {
	Views     *SavedViewHandler
	Export    *ExportHandler
	Options   *OptionsHandler
	JWTSecret []byte
	RateLimit time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))

	authGroup.GET("/views", deps.Views.List)
	authGroup.GET("/views/:id", deps.Views.Load)
	authGroup.GET("/filters/options", deps.Options.Get)
	authGroup.GET("/export/:dataset", deps.Export.Dataset)

	limited := authGroup.Group("")
	limited.Use(middleware.RateLimit(deps.RateLimit))
	limited.POST("/views", deps.Views.Create)
	limited.DELETE("/views/:id", deps.Views.Delete)
	limited.POST("/export", deps.Export.Custom)
}
