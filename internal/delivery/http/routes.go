package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/greencart/backend/config"
)

// SetupRouter configures the gin router with all routes and middleware
func SetupRouter(cfg *config.Config, handler *Handler, log *zap.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", handler.ListProducts)
			products.GET("/categories", handler.ListCategories)
			products.GET("/catalog", handler.GetCatalog)
			products.GET("/search", handler.SearchProducts)
			products.GET("/external-search", handler.SearchExternalProducts)
			products.GET("/carbon-footprint", handler.EstimateCarbonFootprint)
			products.GET("/barcode/:barcode", handler.GetProductByBarcode)
			products.GET("/:id", handler.GetProduct)
			products.GET("/:id/analysis", handler.AnalyzeProduct)
			products.POST("/compare", handler.CompareProducts)
		}

		shoppingList := v1.Group("/shopping-list")
		{
			shoppingList.POST("/optimize", handler.OptimizeShoppingList)
			shoppingList.POST("/estimate", handler.EstimateShoppingList)
		}

		recommendations := v1.Group("/recommendations")
		{
			recommendations.GET("/substitute/:id", handler.GetSubstitutions)
			recommendations.POST("/batch-substitute", handler.BatchSubstitute)
			recommendations.GET("/similar/:id", handler.GetSimilarProducts)
			recommendations.GET("/top-sustainable", handler.GetTopSustainable)
			recommendations.GET("/best-value", handler.GetBestValue)
			recommendations.GET("/savings-opportunities", handler.GetSavingsOpportunities)
		}
	}

	return router
}
