package server

import (
	"net/http"
	"time"

	"inventory-manager/internal/auth"
	"inventory-manager/internal/config"
	"inventory-manager/internal/events"
	"inventory-manager/internal/handlers"
	"inventory-manager/internal/middleware"
	"inventory-manager/internal/models"
	"inventory-manager/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const sessionName = "inventory_session"

// Deps are the shared resources the router wires into handlers.
type Deps struct {
	DB     *gorm.DB
	Redis  *redis.Client // nil disables rate limiting
	Tokens auth.TokenStore
	Events events.Publisher
	Authn  *auth.Authenticator
}

func NewRouter(cfg *config.Config, deps Deps) *gin.Engine {
	r := gin.Default()

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(middleware.RequestID())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode, MaxAge: 14 * 24 * 3600})
	r.Use(sessions.Sessions(sessionName, store))

	resolver := &auth.Resolver{Users: auth.GormUserLookup(deps.DB), Tokens: deps.Tokens}
	r.Use(middleware.InjectUser(resolver))

	products := services.NewProductService(deps.DB, deps.Events)
	users := services.NewUserService(deps.DB, cfg.BcryptCost)

	authH := handlers.NewAuthHandler(users, deps.Authn, deps.Tokens)
	userH := handlers.NewUserHandler(users)
	productH := handlers.NewProductHandler(products)
	storeH := handlers.NewStoreHandler(services.NewStoreService(deps.DB))
	supplierH := handlers.NewSupplierHandler(services.NewSupplierService(deps.DB), products)
	dashboardH := handlers.NewDashboardHandler(services.NewDashboardService(deps.DB))
	auditH := handlers.NewAuditHandler(deps.DB)

	limit := middleware.RateLimiter(deps.Redis, cfg.RateLimitPerMinute)

	api := r.Group("/api")

	// AUTH
	authGroup := api.Group("/auth")
	authGroup.POST("/register", limit, authH.Register)
	authGroup.POST("/login", limit, authH.Login)
	authGroup.POST("/logout", authH.Logout)

	private := authGroup.Group("")
	private.Use(middleware.RequireAuth())
	private.GET("/me", authH.Me)
	private.PUT("/profile/update", authH.UpdateProfile)
	private.POST("/profile/update", authH.UpdateProfile)
	private.GET("/managers", userH.Managers)
	private.GET("/staff", userH.Staff)
	private.GET("/users/:id", userH.Get)

	admin := private.Group("")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.GET("/users", userH.List)
	admin.PUT("/users/:id/role", userH.UpdateRole)
	admin.POST("/users/:id/role", userH.UpdateRole)
	admin.DELETE("/users/:id", userH.Delete)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth())

	// PRODUCTS
	protected.GET("/products", productH.List)
	protected.GET("/products/:id", productH.Get)
	protected.POST("/products", middleware.RequireRole(models.RoleAdmin, models.RoleManager), productH.Create)
	protected.PUT("/products/:id", middleware.RequireRole(models.RoleAdmin, models.RoleManager), productH.Update)
	protected.PATCH("/products/:id", middleware.RequireRole(models.RoleAdmin, models.RoleManager), productH.Update)
	protected.DELETE("/products/:id", middleware.RequireRole(models.RoleAdmin), productH.Delete)

	// STORES
	protected.GET("/stores", storeH.List)
	protected.GET("/stores/:id", storeH.Get)
	protected.POST("/stores", middleware.RequireRole(models.RoleAdmin, models.RoleManager), storeH.Create)
	protected.PUT("/stores/:id", middleware.RequireRole(models.RoleAdmin, models.RoleManager), storeH.Update)
	protected.PATCH("/stores/:id", middleware.RequireRole(models.RoleAdmin, models.RoleManager), storeH.Update)
	protected.PUT("/stores/:id/employees", middleware.RequireRole(models.RoleAdmin, models.RoleManager), storeH.ReplaceEmployees)
	protected.DELETE("/stores/:id", middleware.RequireRole(models.RoleAdmin), storeH.Delete)

	// SUPPLIERS
	protected.GET("/suppliers", supplierH.List)
	protected.GET("/suppliers/:id", supplierH.Get)
	protected.GET("/suppliers/:id/products", supplierH.Products)
	protected.POST("/suppliers", middleware.RequireRole(models.RoleAdmin), supplierH.Create)
	protected.PUT("/suppliers/:id", middleware.RequireRole(models.RoleAdmin), supplierH.Update)
	protected.PATCH("/suppliers/:id", middleware.RequireRole(models.RoleAdmin), supplierH.Update)
	protected.DELETE("/suppliers/:id", middleware.RequireRole(models.RoleAdmin), supplierH.Delete)

	// DASHBOARD
	protected.GET("/dashboard", dashboardH.Overview)
	protected.GET("/dashboard/low-stock", productH.LowStock)

	// AUDIT
	protected.GET("/audit", middleware.RequireRole(models.RoleAdmin), auditH.List)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
