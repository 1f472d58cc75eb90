package main

import (
	"fmt"
	"log"
	"os"

	_ "metapool/docs"
	"metapool/internal/auth"
	"metapool/internal/handlers"
	"metapool/internal/storage"
	"metapool/internal/tasks"
	"metapool/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @Title						Онлайн очередь с номерными талонами METAPOOL
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	key := os.Getenv("ENV_CHEK")
	if key == "" {
		fmt.Println("Подключение к .env")
		err := godotenv.Load()
		if err != nil {
			log.Fatal("Ошибка получения .env")
		}
	}

	storage.ConnectDatabase()

	if err := storage.Migrate(); err != nil {
		log.Fatal("Ошибка при миграции... ", err.Error())
	}

	storage.InitRedis()

	tasks.InitScheduler()

	go ws.HubInstance.Run()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", handlers.Login)
		authGroup.POST("/register", handlers.RegisterAdmin)
		authGroup.POST("/refresh", handlers.RefreshToken)
	}

	// Публичные эндпоинты табло и самостоятельной регистрации.
	public := r.Group("/api")
	{
		public.GET("/queue/status", handlers.GetQueueStatusHandler)
		public.GET("/queue/ws", ws.QueueWebSocketHandler)
		public.POST("/participants", handlers.RegisterParticipantHandler)
	}

	// Админские операции над очередью.
	admin := r.Group("/api", auth.AuthMiddleware())
	{
		admin.GET("/participants", handlers.ListParticipantsHandler)
		admin.POST("/participants/:id/done", handlers.MarkDoneHandler)
		admin.POST("/queue/start", handlers.StartQueueHandler)
		admin.POST("/queue/advance", handlers.AdvanceTokenHandler)
		admin.POST("/queue/skip", handlers.SkipCurrentHandler)
		admin.POST("/queue/reset", handlers.SoftResetHandler)
		admin.POST("/queue/reset/hard", handlers.HardResetHandler)
	}

	if err := r.Run(":8080"); err != nil {
		log.Fatal("Ошибка запуска сервера...", err.Error())
	}
}
