package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tweet-web-server/config"
	_ "tweet-web-server/docs"
	"tweet-web-server/internal/handler"
	"tweet-web-server/internal/ports"
	"tweet-web-server/internal/repository"
	"tweet-web-server/internal/security"
	"tweet-web-server/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Tweet-web-server
// @version 1.0
// @description REST API мини-сервиса твитов: аутентификация, лента, профили

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logrus.Info("файл .env не найден, используется окружение процесса")
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.ServerAddr)

	userRepo := repository.NewUserRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, time.Duration(cfg.TTL.FeedCache)*time.Second)

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("Ошибка создания S3 сервиса: %v", err)
	}

	var emailSender ports.EmailSender
	if cfg.Email.Mock {
		emailSender = service.NewMockSender()
	} else {
		emailSender = service.NewSMTPSender(&cfg.Email)
	}

	jwtService := security.NewJWTService(&cfg.JWT, security.RealClock{})
	authService := service.NewAuthenticationService(userRepo, jwtService, emailSender, cfg)
	userService := service.NewUserService(userRepo, s3Service)
	superuserService := service.NewSuperuserService(userRepo)
	tweetService := service.NewTweetService(tweetRepo, cacheRepo)

	authHandler := handler.NewAuthenticationHandler(authService, cfg)
	userHandler := handler.NewUserHandler(userService, authService)
	superuserHandler := handler.NewSuperuserHandler(superuserService)
	tweetHandler := handler.NewTweetHandler(tweetService)

	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	setupAuthRoutes(router, authHandler)
	setupUserRoutes(router, userHandler, jwtService, userRepo, cfg)
	setupSuperuserRoutes(router, superuserHandler, jwtService, userRepo, cfg)
	setupTweetRoutes(router, tweetHandler, jwtService, userRepo, cfg)

	runServer(ctx, srv)
}

func setupAuthRoutes(r chi.Router, h *handler.AuthenticationHandler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login/email", h.LoginEmail)
		r.Post("/login/tg", h.LoginTelegram)
		r.Post("/access_token", h.RefreshAccessToken)
		r.Post("/logout", h.Logout)
		r.Post("/register", h.Register)
		r.Post("/verify", h.Verify)
		r.Get("/check/email", h.CheckEmail)
	})
}

func setupUserRoutes(r chi.Router, h *handler.UserHandler, jwtService *security.JWTService, users security.UserResolver, cfg *config.AppConfig) {
	r.Route("/api/user", func(r chi.Router) {
		// восстановление пароля доступно без access-токена
		r.Post("/forgot_password", h.ForgotPassword)
		r.Post("/forgot_password/verify", h.RecoverPassword)

		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware(jwtService, users, cfg))
			r.Get("/info", h.Info)
			r.Post("/update", h.Update)
			r.Post("/change_password", h.ChangePassword)
			r.Post("/upload_photo", h.UploadPhoto)
		})
	})
}

func setupSuperuserRoutes(r chi.Router, h *handler.SuperuserHandler, jwtService *security.JWTService, users security.UserResolver, cfg *config.AppConfig) {
	r.Route("/api/superuser", func(r chi.Router) {
		r.Use(security.JWTMiddleware(jwtService, users, cfg))
		r.Use(security.SuperuserMiddleware)
		r.Get("/users", h.ListUsers)
		r.Post("/users/update", h.UpdateUserRoles)
		r.Post("/users/delete", h.DeleteUser)
	})
}

func setupTweetRoutes(r chi.Router, h *handler.TweetHandler, jwtService *security.JWTService, users security.UserResolver, cfg *config.AppConfig) {
	r.Route("/api/tweets", func(r chi.Router) {
		r.Use(security.JWTMiddleware(jwtService, users, cfg))
		r.Get("/", h.ListTweets)
		r.Post("/new", h.NewTweet)
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
