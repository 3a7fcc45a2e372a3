// Package server wires the stores, logic layers, facade and transport into
// a runnable HTTP server. All wiring is explicit: nothing below this
// package reaches for globals.
package server

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"anoa.com/peerreview/internal/config"
	"anoa.com/peerreview/internal/facade"
	"anoa.com/peerreview/internal/handler"
	"anoa.com/peerreview/internal/legacy"
	"anoa.com/peerreview/internal/logic"
	"anoa.com/peerreview/internal/middleware"
	"anoa.com/peerreview/internal/repository"
	"anoa.com/peerreview/internal/search"
	"anoa.com/peerreview/pkg/regkey"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	keygen, err := regkey.New(cfg.RegKeyEncryptionKeys)
	if err != nil {
		return nil, fmt.Errorf("initializing registration key encrypter: %w", err)
	}

	coursesRepo := repository.NewCoursesRepository()
	instructorsRepo := repository.NewInstructorsRepository(keygen)
	usersRepo := repository.NewUsersRepository()
	sessionsRepo := repository.NewFeedbackSessionsRepository()
	extensionsRepo := repository.NewDeadlineExtensionsRepository()
	notificationsRepo := repository.NewNotificationsRepository()

	logicNew := logic.New(coursesRepo, instructorsRepo, usersRepo, sessionsRepo,
		extensionsRepo, notificationsRepo, redisClient)
	logicLegacy := legacy.NewLogic(legacy.NewStore(redisClient))

	// Initialize Meilisearch
	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	var searchSvc search.SearchService = search.NoopSearchService{}
	if cfg.MeiliMasterKey != "" {
		meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		searchSvc = search.NewMeiliSearchService(meiliClient)
	} else {
		log.Println("WARNING: MEILI_MASTER_KEY is not set, search indexing disabled")
	}

	bridge := facade.New(logicNew, logicLegacy, searchSvc)

	courseHandler := handler.NewCourseHandler(bridge)
	instructorHandler := handler.NewInstructorHandler(bridge)
	notificationHandler := handler.NewNotificationHandler(bridge, redisClient)

	authMiddleware := middleware.NewAuthMiddleware(bridge, cfg.JWTSecret)

	router := gin.Default()
	setupCORS(router, cfg.AllowedOrigins)

	api := router.Group("/api")
	api.Use(middleware.Transaction(db))

	// Public routes
	api.GET("/join", instructorHandler.JoinByRegistrationKey)
	api.GET("/notifications/active", notificationHandler.GetActiveNotifications)
	api.GET("/notifications/stream", notificationHandler.HandleWebSocket)

	// Protected routes
	api.Use(authMiddleware.RequireAuth())
	{
		api.POST("/courses", courseHandler.CreateCourse)
		api.GET("/courses", courseHandler.GetMyCourses)
		api.GET("/courses/:courseid", courseHandler.GetCourse)
		api.GET("/courses/:courseid/sessions", courseHandler.GetCourseWithSessions)
		api.PUT("/courses/:courseid", courseHandler.UpdateCourse)
		api.PUT("/courses/:courseid/bin", courseHandler.BinCourse)
		api.DELETE("/courses/:courseid/bin", courseHandler.RestoreCourse)
		api.DELETE("/courses/:courseid", courseHandler.DeleteCourse)

		api.POST("/courses/:courseid/instructors", instructorHandler.CreateInstructor)
		api.GET("/courses/:courseid/instructors", instructorHandler.ListInstructors)
		api.GET("/courses/:courseid/instructors/:email", instructorHandler.GetInstructor)
		api.PUT("/courses/:courseid/instructors/:email", instructorHandler.UpdateInstructorByEmail)
		api.PUT("/courses/:courseid/instructor", instructorHandler.UpdateSelf)
		api.POST("/courses/:courseid/instructors/:email/regkey", instructorHandler.RegenerateRegistrationKey)
		api.DELETE("/courses/:courseid/instructors/:email", instructorHandler.DeleteInstructor)

		admin := api.Group("/admin")
		admin.Use(authMiddleware.RequireAdmin())
		{
			admin.POST("/notifications", notificationHandler.CreateNotification)
			admin.GET("/notifications", notificationHandler.GetNotifications)
			admin.DELETE("/notifications/:id", notificationHandler.DeleteNotification)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}, nil
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := strings.Split(allowedOrigins, ",")
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
