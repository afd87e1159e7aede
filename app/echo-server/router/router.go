package router

import (
	"shopSphere/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupCatalogRoutes(api *echo.Group, handler *rest.CatalogHandler) {
	products := api.Group("/products")

	products.GET("", handler.GetProducts)
	products.GET("/:id", handler.GetProductByID)
}

func SetupTrackRoutes(api *echo.Group, handler *rest.TrackHandler) {
	track := api.Group("/track")

	track.POST("/view", handler.TrackView)
	track.POST("/purchase", handler.TrackPurchase)
}

func SetupRecommendRoutes(api *echo.Group, handler *rest.RecommendHandler) {
	reco := api.Group("/recommendations")

	reco.GET("", handler.Recommend)
}

func SetupAdminProductRoutes(api *echo.Group, handler *rest.AdminProductHandler) {
	admin := api.Group("/admin/products")

	admin.POST("", handler.CreateProduct)
	admin.PUT("/:id", handler.UpdateProduct)
	admin.DELETE("/:id", handler.DeleteProduct)
}
