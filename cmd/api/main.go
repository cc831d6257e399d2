// cmd/api/main.go
// Bootstraps all components and starts the server

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/serendiblabs/mangala-backend/internal/audit"
	"github.com/serendiblabs/mangala-backend/internal/auth"
	"github.com/serendiblabs/mangala-backend/internal/common/database"
	"github.com/serendiblabs/mangala-backend/internal/config"
	"github.com/serendiblabs/mangala-backend/internal/matching"
	"github.com/serendiblabs/mangala-backend/internal/messaging"
	"github.com/serendiblabs/mangala-backend/internal/notification"
	"github.com/serendiblabs/mangala-backend/internal/profile"
)

var startTime = time.Now()

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting Mangala Matrimony API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load and validate configuration
	log.Println("\n📋 Step 2: Loading configuration...")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed: ", err)
	}
	log.Println("✅ Configuration loaded and valid")

	// 3. Connect to PostgreSQL
	log.Println("\n🗄️  Step 3: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL: ", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL successfully")

	// 4. Connect to Redis (optional, backs the daily match cache)
	log.Println("\n📮 Step 4: Connecting to Redis...")
	redisClient, err := database.NewRedisClientFromURL(cfg.RedisURL)
	if err != nil {
		log.Printf("⚠️  Redis unavailable (%v), daily matches will be computed per request", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Println("✅ Connected to Redis successfully")
	}

	// 5. Run database migrations
	log.Println("\n🔨 Step 5: Running database migrations...")
	if err := runMigrations(db); err != nil {
		log.Fatal("❌ Failed to run migrations: ", err)
	}
	log.Println("✅ Database migrations completed")

	// 6. Auth
	log.Println("\n🔐 Step 6: Initializing authentication...")
	authRepo := auth.NewPostgresRepository(db)
	authService := auth.NewService(authRepo, &auth.Config{
		JWTSecret:         cfg.JWTSecret,
		AccessTokenExpiry: cfg.AccessTokenExpiry,
		BCryptCost:        cfg.BCryptCost,
	})
	authHandler := auth.NewHandler(authService)
	authMiddleware := auth.NewMiddleware(authService)
	log.Println("✅ Authentication initialized")

	// 7. Profiles
	log.Println("\n👤 Step 7: Initializing profiles...")
	profileRepo := profile.NewPostgresRepository(db)

	var uploadService profile.UploadService
	if cfg.UseS3 {
		uploadService, err = profile.NewS3UploadService(cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			log.Printf("⚠️  Failed to init S3, using local uploads: %v", err)
			uploadService = profile.NewLocalUploadService(cfg.LocalUploadDir, cfg.BaseURL+"/uploads")
		} else {
			log.Println("   ✅ Using S3 for photo uploads")
		}
	} else {
		uploadService = profile.NewLocalUploadService(cfg.LocalUploadDir, cfg.BaseURL+"/uploads")
		log.Println("   ✅ Using local storage for photo uploads")
	}

	profileService := profile.NewService(profileRepo, uploadService)
	profileHandler := profile.NewHandler(profileService)
	log.Println("✅ Profiles initialized")

	// 8. Notifications
	log.Println("\n🔔 Step 8: Initializing notifications...")
	notificationRepo := notification.NewPostgresRepository(db)

	var emailService notification.EmailService
	if cfg.EmailProvider == "sendgrid" && cfg.EnableEmailNotifications {
		emailService, err = notification.NewSendGridEmailService(cfg.SendGridAPIKey, cfg.EmailFrom, "Mangala")
		if err != nil {
			log.Printf("⚠️  SendGrid init failed (%v), using mock email", err)
			emailService = notification.NewMockEmailService()
		} else {
			log.Println("   ✅ Using SendGrid for emails")
		}
	} else {
		emailService = notification.NewMockEmailService()
		log.Println("   📝 Using mock email service")
	}

	var smsService notification.SMSService
	if cfg.SMSProvider == "twilio" && cfg.EnableSMSNotifications {
		smsService, err = notification.NewTwilioSMSService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
		if err != nil {
			log.Printf("⚠️  Twilio init failed (%v), using mock SMS", err)
			smsService = notification.NewMockSMSService()
		} else {
			log.Println("   ✅ Using Twilio for SMS")
		}
	} else {
		smsService = notification.NewMockSMSService()
		log.Println("   📝 Using mock SMS service")
	}

	var pushService notification.PushService
	if cfg.PushProvider == "fcm" && cfg.EnablePushNotifications {
		pushService, err = notification.NewFCMPushService(context.Background(), cfg.FCMCredentialsFile, "")
		if err != nil {
			log.Printf("⚠️  FCM init failed (%v), using mock push", err)
			pushService = notification.NewMockPushService()
		} else {
			log.Println("   ✅ Using FCM for push notifications")
		}
	} else {
		pushService = notification.NewMockPushService()
		log.Println("   📝 Using mock push service")
	}

	notificationService := notification.NewService(notificationRepo, emailService, smsService, pushService)
	notificationHandler := notification.NewHandler(notificationService)
	log.Println("✅ Notifications initialized")

	// 9. Matching engine
	log.Println("\n💞 Step 9: Initializing matching engine...")
	matchingRepo := matching.NewPostgresRepository(db)

	var dailyCache matching.DailyCache
	if redisClient != nil {
		dailyCache = matching.NewDailyMatchCache(redisClient, cfg.DailyCacheTTL)
		log.Println("   ✅ Daily match cache enabled")
	}

	// 10. Messaging (hub first; the matching service pushes match
	// events through it)
	log.Println("\n💬 Step 10: Initializing messaging...")
	messagingHub := messaging.NewHub()
	go messagingHub.Run()

	messagingRepo := messaging.NewPostgresRepository(db)
	messagingService := messaging.NewService(messagingRepo, matchingRepo, messagingHub)
	messagingHandler := messaging.NewHandler(messagingService, messagingHub)
	log.Println("✅ Messaging initialized")

	auditService := audit.NewService(audit.NewPostgresRepository(db))

	matchingService := matching.NewService(
		matchingRepo,
		profileRepo,
		messagingService,
		dailyCache,
		&matchNotifier{notifications: notificationService, hub: messagingHub},
		auditService,
		matching.Config{
			DailyLimit:      cfg.DailyMatchLimit,
			OverFetchFactor: cfg.CandidateOverFetch,
			ExpiryDays:      cfg.MatchExpiryDays,
		},
	)
	matchingHandler := matching.NewHandler(matchingService)
	log.Println("✅ Matching engine initialized")

	// 11. Schedulers
	log.Println("\n⏰ Step 11: Starting schedulers...")
	schedulerCtx, stopSchedulers := context.WithCancel(context.Background())
	defer stopSchedulers()
	matching.NewScheduler(matchingService).Start(schedulerCtx)
	log.Println("✅ Schedulers started")

	// 12. Routes
	log.Println("\n🛣️  Step 12: Setting up routes...")
	router := mux.NewRouter()

	if !cfg.UseS3 {
		router.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/",
				http.FileServer(http.Dir(cfg.LocalUploadDir))))
	}

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	auth.RegisterRoutes(router, authHandler)
	profile.RegisterRoutes(router, profileHandler, authMiddleware)
	matching.RegisterRoutes(router, matchingHandler, authMiddleware)
	messaging.RegisterRoutes(router, messagingHandler, authMiddleware)
	notification.RegisterRoutes(router, notificationHandler, authMiddleware)

	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)
	log.Println("✅ Routes registered")

	// 13. Start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("\n========================================")
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n⚠️  Shutdown signal received...")

	stopSchedulers()
	messagingHub.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server forced to shutdown: ", err)
	}

	log.Println("✅ Server exited gracefully")
}

// matchNotifier fans mutual-match events out to the stored/push/email
// channels and to connected websocket clients
type matchNotifier struct {
	notifications notification.Service
	hub           *messaging.Hub
}

func (n *matchNotifier) NotifyMutualMatch(ctx context.Context, userID, matchedUserID int64) {
	n.notifications.NotifyMutualMatch(ctx, userID, matchedUserID)
	n.hub.NotifyMutualMatch(ctx, userID, matchedUserID)
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// loggingMiddleware logs all requests with their status and duration
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		log.Printf("← %s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, time.Since(start))
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
