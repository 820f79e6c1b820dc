// @title Bloom wellness API
// @description API for the emotional-wellness journal "Bloom"
// @BasePath /api/v1
// @schemes http
package main

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/limbo/bloom/internal/api"
	"github.com/limbo/bloom/internal/repository"
	"github.com/limbo/bloom/internal/service"
	"github.com/limbo/bloom/pkg/cleanup"
	"github.com/limbo/bloom/pkg/config"
	jwtservice "github.com/limbo/bloom/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()
	kv := repository.NewSQLiteKV(cfg.GetStringOrDefault("BLOOM_DB_PATH", "./bloom.db"))
	userService := service.NewUserService(repository.NewUserRecordRepo(kv), service.DemoCredentials{
		Email:    cfg.GetStringOrDefault("DEMO_EMAIL", "test@example.com"),
		Password: cfg.GetStringOrDefault("DEMO_PASSWORD", "password"),
	})
	secret := cfg.GetString("JWT_SECRET")
	if secret == "" {
		// Sessions are mock anyway; an ephemeral secret just means everyone
		// re-logs-in after a restart
		secret = uuid.NewString()
		log.Println("JWT_SECRET not set, using ephemeral secret")
	}
	serv := api.New(&api.ServicesList{
		UserService:      userService,
		JournalService:   service.NewJournalService(repository.NewEntriesRepo(kv)),
		DashboardService: service.NewDashboardService(),
		ChatService:      service.NewChatService(context.Background(), cfg.GetString("GEMINI_API_KEY")),
		JwtService:       jwtservice.New(secret),
	})
	err := serv.Run(cfg.GetStringOrDefault("API_ADDRESS", ":8080"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
	cleanup.CleanUp()
}
