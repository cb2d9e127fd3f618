package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"little-lemon-api/controllers"
	"little-lemon-api/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.RequestID())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	categoryCtrl := controllers.NewCategoryController(db)
	menuItemCtrl := controllers.NewMenuItemController(db)
	cartCtrl := controllers.NewCartController(db)
	orderCtrl := controllers.NewOrderController(db)
	groupCtrl := controllers.NewGroupController(db)

	// Throttle tiers, per authenticated user: catalog and cart traffic gets
	// the highest ceiling, orders a medium one, staff management the lowest.
	catalogLimiter := middlewares.NewUserRateLimiter(10)
	orderLimiter := middlewares.NewUserRateLimiter(5)
	staffLimiter := middlewares.NewUserRateLimiter(2)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(catalogLimiter.RateLimit())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)

	catalog := auth.Group("/")
	catalog.Use(catalogLimiter.RateLimit())
	{
		catalog.GET("/category", categoryCtrl.GetAllCategories)
		catalog.POST("/category", categoryCtrl.CreateCategory)

		catalog.GET("/menu-items", menuItemCtrl.GetAllMenuItems)
		catalog.POST("/menu-items", menuItemCtrl.CreateMenuItem)
		catalog.GET("/menu-items/:item_id", menuItemCtrl.GetMenuItemByID)
		catalog.PUT("/menu-items/:item_id", menuItemCtrl.UpdateMenuItem)
		catalog.PATCH("/menu-items/:item_id", menuItemCtrl.PatchMenuItem)
		catalog.DELETE("/menu-items/:item_id", menuItemCtrl.DeleteMenuItem)

		catalog.GET("/cart/menu-items", cartCtrl.GetCart)
		catalog.POST("/cart/menu-items", cartCtrl.AddToCart)
		catalog.DELETE("/cart/menu-items", cartCtrl.ClearCart)
	}

	orders := auth.Group("/orders")
	orders.Use(orderLimiter.RateLimit())
	{
		orders.GET("", orderCtrl.GetAllOrders)
		orders.POST("", orderCtrl.CreateOrder)
		orders.GET("/:order_id", orderCtrl.GetOrderByID)
		orders.PUT("/:order_id", orderCtrl.UpdateOrder)
		orders.PATCH("/:order_id", orderCtrl.UpdateOrder)
		orders.DELETE("/:order_id", orderCtrl.DeleteOrder)
	}

	groups := auth.Group("/groups")
	groups.Use(staffLimiter.RateLimit(), middlewares.RequireManager())
	{
		groups.GET("/manager/users", groupCtrl.GetManagerUsers)
		groups.POST("/manager/users", groupCtrl.AddManagerUser)
		groups.DELETE("/manager/users/:user_id", groupCtrl.RemoveManagerUser)

		groups.GET("/delivery-crew/users", groupCtrl.GetDeliveryCrewUsers)
		groups.POST("/delivery-crew/users", groupCtrl.AddDeliveryCrewUser)
		groups.DELETE("/delivery-crew/users/:user_id", groupCtrl.RemoveDeliveryCrewUser)
	}

	return r
}
