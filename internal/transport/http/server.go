package http

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"lexportal/internal/ai"
	appsvc "lexportal/internal/app"
	"lexportal/internal/bootstrap"
	"lexportal/internal/cache"
	"lexportal/internal/event"
	rabbitmqClient "lexportal/internal/platform/rabbitmq"
	"lexportal/internal/repository"
	"lexportal/internal/search"
	"lexportal/internal/tagging"
	"lexportal/internal/transport/http/handler"
	"lexportal/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.Postgres)
	documentRepo := repository.NewDocumentRepository(app.Postgres)
	sessionRepo := repository.NewChatSessionRepository(app.Postgres)
	turnRepo := repository.NewTurnRepository(app.Postgres)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)

	cities := tagging.LoadCities(app.Config.Search.CitiesPath)
	stopwords := search.LoadStopwords(app.Config.Search.StopwordsPath)
	tagger := tagging.NewTagger(cities, stopwords)
	ingestService := appsvc.NewIngestService(documentRepo, tagger)

	searchService := appsvc.NewSearchService(
		documentRepo,
		app.Config.Search.DefaultPageSize,
		app.Config.Search.MaxPageSize,
		appsvc.SnippetOptions{
			StartSel:     app.Config.Search.SnippetStartSel,
			StopSel:      app.Config.Search.SnippetStopSel,
			MaxFragments: app.Config.Search.SnippetFragments,
			MaxWords:     app.Config.Search.SnippetMaxWords,
			MinWords:     app.Config.Search.SnippetMinWords,
		},
	)

	limiter := appsvc.NewUsageLimiter(turnRepo, app.Config.Assistant.DailyMessageLimit)
	completer := ai.NewCompletionClient(ai.ChatConfig{
		BaseURL: app.Config.LLM.BaseURL,
		APIKey:  app.Config.LLM.APIKey,
		Model:   app.Config.LLM.Model,
		Timeout: time.Duration(app.Config.LLM.TimeoutSeconds) * time.Second,
	})
	extractor := search.NewTermExtractor(stopwords, app.Config.Assistant.MaxSearchTerms)
	historyCache := cache.NewHistoryCache(
		app.Redis,
		time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.HistoryDirtyTTLSeconds)*time.Second,
	)
	assistantService := appsvc.NewAssistantService(
		sessionRepo,
		turnRepo,
		limiter,
		searchService,
		completer,
		extractor,
		historyCache,
		app.Config.Assistant.SearchPageSize,
		app.Config.Assistant.MaxPromptDocuments,
	)

	counterPublisher := rabbitmqClient.NewCounterPublisher(app.MQConn, app.Config.RabbitMQ.CounterEventQueue)
	publishCounter := func(c *gin.Context, evt event.CounterEvent) {
		if err := counterPublisher.Publish(c.Request.Context(), evt); err != nil {
			log.Printf("publish counter event failed: %v", err)
		}
	}

	authHandler := handler.NewAuthHandler(authService)
	documentHandler := handler.NewDocumentHandler(ingestService, searchService, documentRepo, publishCounter)
	assistantHandler := handler.NewAssistantHandler(assistantService)

	authJWT := middleware.AuthJWT(app.Config.Auth.JWTSecret)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authJWT, authHandler.Me)

	docGroup := v1.Group("/documents")
	docGroup.Use(authJWT)
	docGroup.GET("", documentHandler.Search)
	docGroup.GET("/:id", documentHandler.Get)
	docGroup.GET("/:id/download", documentHandler.Download)
	docGroup.POST("", middleware.AdminOnly(), documentHandler.Upload)
	docGroup.POST("/bulk", middleware.AdminOnly(), documentHandler.UploadBulk)
	docGroup.GET("/:id/preview", middleware.AdminOnly(), documentHandler.Preview)

	assistantGroup := v1.Group("/assistant")
	assistantGroup.Use(authJWT)
	assistantGroup.POST("/messages", assistantHandler.SendMessage)
	assistantGroup.GET("/sessions", assistantHandler.ListSessions)
	assistantGroup.GET("/sessions/:id", assistantHandler.GetSession)
	assistantGroup.DELETE("/sessions/:id", assistantHandler.DeleteSession)
	assistantGroup.GET("/limit", assistantHandler.Limit)

	return router
}
