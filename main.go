package main

import (
	"clementus360/task-manager/config"
	"clementus360/task-manager/handlers"
	"clementus360/task-manager/middleware"
	"clementus360/task-manager/routes"
	"clementus360/task-manager/supabase"
	"net/http"

	"github.com/redis/go-redis/v9"
)

func main() {

	config.LoadEnv()
	config.InitLogger()

	settings, err := config.Load()
	if err != nil {
		config.Logger.Fatal(err)
	}
	supabase.Init(settings.SupabaseURL, settings.SupabaseKey)

	auth := supabase.NewAuth(supabase.Client)
	h := handlers.New(auth)

	var limiter *middleware.RateLimiter
	if settings.RedisURL != "" {
		opts, err := redis.ParseURL(settings.RedisURL)
		if err != nil {
			config.Logger.Fatal("Invalid REDIS_URL: ", err)
		}
		limiter = middleware.NewRateLimiter(redis.NewClient(opts), settings.RateLimitMax, settings.RateLimitWindow, settings.TrustedProxies...)
	} else {
		config.Logger.Warn("REDIS_URL not set, rate limiting disabled")
	}

	mux := http.NewServeMux()
	routes.RegisterAllRoutes(mux, h, middleware.AuthMiddleware(auth))

	handler := middleware.Chain(
		middleware.LoggingMiddleware,
		middleware.CORS(settings.CORSOrigins),
		middleware.SecurityHeaders,
		middleware.RateLimitMiddleware(limiter),
	)(mux)

	config.Logger.Infof("Server is running on port %s", settings.Port)
	config.Logger.Fatal(http.ListenAndServe(":"+settings.Port, handler))
}
