package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/epasal/epasal-backend/internal/model"
	"github.com/epasal/epasal-backend/internal/service"
	"github.com/epasal/epasal-backend/pkg/config"
	"github.com/epasal/epasal-backend/pkg/middleware"
)

// API wires the HTTP surface to the service layer.
type API struct {
	cfg    *config.Config
	pool   *pgxpool.Pool
	log    zerolog.Logger
	engine *service.Engine
	auth   *service.AuthService
	bot    *service.Chatbot
	mailer *service.Mailer
	khalti *service.KhaltiClient
	tasks  *service.Runner
}

func New(cfg *config.Config, pool *pgxpool.Pool, log zerolog.Logger) *API {
	mailer := service.NewMailer(cfg.SMTP, log)
	catalog := service.NewPGCatalog(pool, log)

	return &API{
		cfg:    cfg,
		pool:   pool,
		log:    log,
		engine: service.NewEngine(catalog, log),
		auth:   service.NewAuthService(pool, mailer, log),
		bot:    service.NewChatbot(pool, cfg.Chat, cfg.BaseURL, log),
		mailer: mailer,
		khalti: service.NewKhaltiClient(cfg.Khalti, log),
		tasks:  service.NewRunner(log),
	}
}

// Tasks exposes the background runner so main can drain it on shutdown.
func (a *API) Tasks() *service.Runner {
	return a.tasks
}

func (a *API) Register(r *gin.Engine) {
	authMiddleware := middleware.NewAuthMiddleware(a.auth)

	// Auth
	r.POST("/signup", a.Signup)
	r.POST("/verify", a.VerifySignup)
	r.POST("/login", a.Login)
	r.POST("/logout", authMiddleware.SessionAuth(), a.Logout)
	r.GET("/user/:user_id", a.GetUserInfo)

	api := r.Group("/api")
	{
		// Storefront
		api.GET("/products/:id", a.GetProduct)
		api.GET("/productshow/getproduct", a.GetFilteredProducts)
		api.GET("/productshow/suggestion", a.GetSuggestions)
		api.GET("/top-picks", a.TopPicks)
		api.GET("/brand/:brand_name", a.LaptopsByBrand)

		// Chat
		api.GET("/chats/messages", a.GetMessages)
		api.POST("/chats/messages", a.PostMessage)

		// Payments
		api.POST("/payment/khalti/initiate", a.InitiateKhaltiPayment)
		api.GET("/payment/khalti/verify", a.VerifyKhaltiPayment)
		api.POST("/payment/verify", a.VerifyPayment)

		// Admin
		admin := api.Group("/admin")
		admin.Use(authMiddleware.SessionAuth(), authMiddleware.RequireStatus(model.StatusAdmin))
		{
			admin.GET("/dashboard", a.Dashboard)
			admin.GET("/users", a.AdminListChatUsers)
			admin.GET("/chats/:user_id", a.AdminGetChat)
			admin.POST("/bot_status/:user_id", a.AdminUpdateBotStatus)
			admin.POST("/send_message/:user_id", a.AdminSendMessage)
			admin.GET("/inventory", a.GetInventory)
			admin.PATCH("/inventory/:id/cost_price", a.UpdateCostPrice)
			admin.POST("/insertion", a.InsertLaptop)
			admin.POST("/inventory/upload", a.UploadInventoryExcel)
		}
	}
}
