package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/junaidrashid-git/adega-api/auth"
	"github.com/junaidrashid-git/adega-api/cart"
	"github.com/junaidrashid-git/adega-api/checkout"
	"github.com/junaidrashid-git/adega-api/config"
	cartControllers "github.com/junaidrashid-git/adega-api/controllers/cart"
	orderControllers "github.com/junaidrashid-git/adega-api/controllers/order"
	settingscontroller "github.com/junaidrashid-git/adega-api/controllers/settings"
	"github.com/junaidrashid-git/adega-api/database"
	"github.com/junaidrashid-git/adega-api/payment"
	"github.com/junaidrashid-git/adega-api/routes"
	"github.com/junaidrashid-git/adega-api/storage"
	"github.com/junaidrashid-git/adega-api/web"
)

func main() {
	log.Println("✅ Starting application...")
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// Init DB
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}

	// Auto-migrate all tables
	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	uploader, err := newUploader(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Upload storage unavailable: %v", err)
	}

	verifier := newVerifier(ctx, cfg)

	deps := routes.Deps{
		DB:       db,
		Sessions: auth.NewSessions(cfg.JWTSecret, cfg.SessionTTL, cfg.CookieSecure),
		Account: auth.AdminAccount{
			Email:        cfg.AdminEmail,
			PasswordHash: cfg.AdminPasswordHash,
			GoogleEmails: cfg.AdminEmails,
		},
		Verifier: verifier,
		Login: web.LoginPage{
			GoogleEnabled:     verifier != nil,
			FirebaseProjectID: cfg.FirebaseProjectID,
		},
		Carts: cartControllers.Carts{
			Repo:   newCartRepository(ctx, cfg),
			TTL:    cfg.CartTTL,
			Secure: cfg.CookieSecure,
		},
		Uploader: uploader,
		Secrets: settingscontroller.Secrets{
			StripeSecretKey:     cfg.StripeSecretKey,
			StripeWebhookSecret: cfg.StripeWebhookSecret,
		},
		Gateways: payment.NewStripe,
		Hub:      orderControllers.NewHub(cfg.AllowedOrigins),
		Rand:     checkout.DefaultRand,
	}
	if deps.Account.Email == "" || deps.Account.PasswordHash == "" {
		log.Printf("⚠️ ADMIN_EMAIL/ADMIN_PASSWORD_HASH not set; password login is disabled")
	}

	// Gin setup
	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	// CORS settings
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Stripe-Signature"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Setup routes
	routes.SetupRoutes(r, deps)

	log.Printf("🚀 Server running on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// newCartRepository uses Redis when REDIS_URL is set, memory otherwise.
func newCartRepository(ctx context.Context, cfg *config.Config) cart.Repository {
	if cfg.RedisURL == "" {
		log.Printf("⚠️ REDIS_URL not set; carts are kept in memory")
		return cart.NewMemoryRepository()
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("❌ Invalid REDIS_URL: %v", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("❌ Redis connection failed: %v", err)
	}
	log.Printf("✅ Connected to Redis for carts")
	return cart.NewRedisRepository(client, "", cfg.CartTTL)
}

func newUploader(ctx context.Context, cfg *config.Config) (storage.Uploader, error) {
	if cfg.UploadBackend == "s3" {
		u, err := storage.NewS3Uploader(ctx, cfg.S3Bucket)
		if err != nil {
			return nil, err
		}
		log.Printf("✅ Uploads go to s3://%s", cfg.S3Bucket)
		return u, nil
	}
	return storage.NewLocalUploader(cfg.UploadDir, cfg.PublicBaseURL), nil
}

// newVerifier returns nil when Firebase is not configured, which disables
// Google sign-in.
func newVerifier(ctx context.Context, cfg *config.Config) auth.TokenVerifier {
	if cfg.FirebaseCredentialsJSON == "" {
		return nil
	}
	verifier, err := auth.NewFirebaseVerifier(ctx, cfg.FirebaseCredentialsJSON, cfg.FirebaseProjectID)
	if err != nil {
		log.Printf("❌ Firebase init failed, Google sign-in disabled: %v", err)
		return nil
	}
	return verifier
}
