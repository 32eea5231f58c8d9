package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"

	"fixiBack/internal/chathub"
	"fixiBack/internal/config"
	"fixiBack/internal/handlers"
	"fixiBack/internal/identity"
	"fixiBack/internal/metrics"
	"fixiBack/internal/models"
	"fixiBack/internal/repositories"
	"fixiBack/internal/services"
	"fixiBack/utils"
)

// userLookup refreshes the caller's stored state on every authenticated request.
type userLookup interface {
	GetUserByID(ctx context.Context, id int) (models.User, error)
}

type application struct {
	log     *logrus.Logger
	metrics *metrics.Metrics
	auth    *identity.Authenticator
	users   userLookup
	signIn  *rateLimiter
	ready   func(ctx context.Context) error

	userHandler         *handlers.UserHandler
	perfilHandler       *handlers.PerfilHandler
	servicioHandler     *handlers.ServicioHandler
	solicitudHandler    *handlers.SolicitudHandler
	historialHandler    *handlers.HistorialHandler
	pagoHandler         *handlers.PagoHandler
	calificacionHandler *handlers.CalificacionHandler
	chatHandler         *handlers.ChatHandler
}

// stores holds the opened backing stores.
type stores struct {
	db       *sql.DB
	perfiles *mongo.Collection
	rdb      *redis.Client
	blobs    *utils.S3Storage
}

func initializeApp(cfg config.Config, s stores, logger *logrus.Logger) (*application, error) {
	auth, err := identity.NewAuthenticator(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, err
	}
	tokens, err := utils.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, err
	}
	m := metrics.New()
	hub := chathub.New(logger, cfg.Server.CORSOrigins)

	// Repositories
	userRepo := &repositories.UserRepository{DB: s.db}
	perfilRepo := &repositories.PerfilRepository{Collection: s.perfiles}
	servicioRepo := &repositories.ServicioRepository{DB: s.db}
	solicitudRepo := &repositories.SolicitudRepository{DB: s.db}
	historialRepo := &repositories.HistorialRepository{DB: s.db}
	pagoRepo := &repositories.PagoRepository{DB: s.db}
	calificacionRepo := &repositories.CalificacionRepository{DB: s.db}
	chatRepo := &repositories.ChatRepository{DB: s.db}
	idempotency := &repositories.IdempotencyStore{RDB: s.rdb, TTL: cfg.Redis.IdempotencyTTL}

	// Services
	userService := &services.UserService{Users: userRepo, Tokens: tokens, Log: logger}
	perfilService := &services.PerfilService{Perfiles: perfilRepo, Users: userRepo, Idempotency: idempotency, Log: logger}
	servicioService := &services.ServicioService{Servicios: servicioRepo, Blobs: s.blobs, Log: logger}
	solicitudService := &services.SolicitudService{Solicitudes: solicitudRepo, Servicios: servicioRepo, Recorder: m, Log: logger}
	historialService := &services.HistorialService{Historial: historialRepo}
	pagoService := &services.PagoService{Pagos: pagoRepo}
	calificacionService := &services.CalificacionService{Calificaciones: calificacionRepo}
	chatService := &services.ChatService{Chats: chatRepo, Notifier: hub}

	return &application{
		log:     logger,
		metrics: m,
		auth:    auth,
		users:   userRepo,
		signIn:  newRateLimiter(rate.Every(time.Minute/time.Duration(cfg.Auth.SignInRate)), cfg.Auth.SignInBurst),
		ready:   s.db.PingContext,

		userHandler:         &handlers.UserHandler{Service: userService, Log: logger},
		perfilHandler:       &handlers.PerfilHandler{Service: perfilService, Log: logger},
		servicioHandler:     &handlers.ServicioHandler{Service: servicioService, Log: logger},
		solicitudHandler:    &handlers.SolicitudHandler{Service: solicitudService, Log: logger},
		historialHandler:    &handlers.HistorialHandler{Service: historialService, Log: logger},
		pagoHandler:         &handlers.PagoHandler{Service: pagoService, Log: logger},
		calificacionHandler: &handlers.CalificacionHandler{Service: calificacionService, Log: logger},
		chatHandler:         &handlers.ChatHandler{Service: chatService, Hub: hub, Log: logger},
	}, nil
}
