package container

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joshua-takyi/sportsmeet/internal/config"
	"github.com/joshua-takyi/sportsmeet/internal/helpers"
	"github.com/joshua-takyi/sportsmeet/internal/middleware"
	"github.com/joshua-takyi/sportsmeet/internal/models"
	"github.com/joshua-takyi/sportsmeet/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

const emailTimeout = 10 * time.Second

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	MongoDBClient  *mongo.Client
	RedisClient    *redis.Client
	SupabaseClient *supabase.Client
	Cloudinary     *cloudinary.Cloudinary

	Auth              middleware.AuthConfig
	EventService      *services.EventService
	AttendanceService *services.AttendanceService
	CommentService    *services.CommentService
	Mailer            services.Mailer

	verifier *helpers.TokenVerifier
}

// Clients groups the connections opened by main. Only MongoDB is required.
type Clients struct {
	Mongo      *mongo.Client
	Redis      *redis.Client
	Supabase   *supabase.Client
	Cloudinary *cloudinary.Cloudinary
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, clients Clients) (*Container, error) {
	verifier, err := helpers.NewTokenVerifier(ctx, cfg.JWTSecret, cfg.JWKSURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	mongoRepo := models.MongodbNewRepo(clients.Mongo, cfg.MongoDBDatabase)

	auth := middleware.AuthConfig{Verifier: verifier, SecureCookies: cfg.IsProduction()}
	var users models.UserDirectory = mongoRepo
	if clients.Supabase != nil {
		supa := models.SupabaseNewRepo(clients.Supabase)
		users = supa
		auth.Refresher = supa
	}

	var geocoder services.Geocoder = services.NewGoogleGeocoder(cfg.GeocodeURL, cfg.GoogleMapsKey, cfg.GeocodeTimeout)
	if clients.Redis != nil {
		geocoder = services.NewCachedGeocoder(geocoder, clients.Redis, cfg.GeocodeCacheTTL, logger)
	}

	var images services.ImageUploader
	if clients.Cloudinary != nil {
		images = services.NewCloudinaryUploader(clients.Cloudinary)
	}

	eventService := services.NewEventService(mongoRepo, mongoRepo, users, geocoder, images, logger)
	eventService.SetGeocodeTimeout(cfg.GeocodeTimeout)

	return &Container{
		Config:            cfg,
		Logger:            logger,
		MongoDBClient:     clients.Mongo,
		RedisClient:       clients.Redis,
		SupabaseClient:    clients.Supabase,
		Cloudinary:        clients.Cloudinary,
		Auth:              auth,
		EventService:      eventService,
		AttendanceService: services.NewAttendanceService(mongoRepo, logger),
		CommentService:    services.NewCommentService(mongoRepo, mongoRepo, logger),
		Mailer:            services.NewHTTPMailer(cfg.EmailAPIURL, cfg.EmailAPIKey, cfg.EmailFrom, emailTimeout),
		verifier:          verifier,
	}, nil
}

// Close waits for background work and stops the JWKS refresher.
func (c *Container) Close() {
	c.EventService.Wait()
	c.verifier.Close()
}
