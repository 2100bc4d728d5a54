package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"staybook/internal/auth"
	"staybook/internal/booking"
	"staybook/internal/config"
	"staybook/internal/email"
	"staybook/internal/review"
	"staybook/internal/spot"
	"staybook/internal/user"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(corsMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(10, 20))

	userRepo := user.NewRepository(db)
	spotRepo := spot.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	reviewRepo := review.NewRepository(db)

	userHandler := user.NewHandler(user.NewService(userRepo, cfg.JWTSecret))
	spotHandler := spot.NewHandler(spot.NewService(spotRepo))
	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, spotRepo, userRepo, emailService))
	reviewHandler := review.NewHandler(review.NewService(reviewRepo, spotRepo))

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
	}

	// Browsing spots and reading reviews needs no session.
	router.GET("/spots", spotHandler.List)
	router.GET("/spots/:spotID", spotHandler.Get)
	router.GET("/spots/:spotID/reviews", reviewHandler.ListBySpot)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)

		protected.GET("/spots/current", spotHandler.ListCurrent)
		protected.POST("/spots", spotHandler.Create)
		protected.PUT("/spots/:spotID", spotHandler.Update)
		protected.DELETE("/spots/:spotID", spotHandler.Delete)
		protected.POST("/spots/:spotID/images", spotHandler.AddImage)
		protected.DELETE("/spot-images/:imageID", spotHandler.DeleteImage)

		protected.POST("/spots/:spotID/bookings", bookingHandler.Create)
		protected.GET("/spots/:spotID/bookings", bookingHandler.ListBySpot)
		protected.GET("/bookings/current", bookingHandler.ListCurrent)
		protected.PUT("/bookings/:bookingID", bookingHandler.Update)
		protected.DELETE("/bookings/:bookingID", bookingHandler.Delete)

		protected.GET("/reviews/current", reviewHandler.ListCurrent)
		protected.POST("/spots/:spotID/reviews", reviewHandler.Create)
		protected.PUT("/reviews/:reviewID", reviewHandler.Update)
		protected.DELETE("/reviews/:reviewID", reviewHandler.Delete)
		protected.POST("/reviews/:reviewID/images", reviewHandler.AddImage)
		protected.DELETE("/review-images/:imageID", reviewHandler.DeleteImage)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
