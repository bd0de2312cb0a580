package main

import (
	"context"
	"errors"
	"log"
	"log/slog"

	"messaging-service/internal/config"
	"messaging-service/internal/database"
	"messaging-service/internal/models"
	"messaging-service/internal/repositories/gormstore"
	"messaging-service/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting database seeding...")

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	ctx := context.Background()
	userRepo := gormstore.NewUserRepository(db)
	messageRepo := gormstore.NewMessageRepository(db)
	userService := services.NewUserService(userRepo, cfg.JWT.Secret, cfg.JWT.ExpirationTime)
	messageService := services.NewMessageService(
		func() services.MessageStore { return messageRepo.Begin() },
		userRepo,
	)

	// Seed initial users
	slog.Info("Creating initial users...")
	testUsers := []struct {
		username    string
		displayName string
	}{
		{"alice", "Alice"},
		{"bob", "Bob"},
		{"charlie", "Charlie"},
	}

	for _, u := range testUsers {
		user, err := userService.Register(ctx, &models.RegisterRequest{
			Username:    u.username,
			DisplayName: u.displayName,
			Password:    "123456",
		})
		if errors.Is(err, services.ErrUserAlreadyExists) {
			slog.Warn("User already exists", "username", u.username)
			continue
		}
		if err != nil {
			log.Fatal("Failed to create user:", err)
		}
		slog.Info("Created user", "username", user.Username, "id", user.ID)
	}

	slog.Info("Creating sample conversation...")
	conversation := []struct {
		from, to, content string
	}{
		{"alice", "bob", "Hi Bob, are we still on for Friday?"},
		{"bob", "alice", "Yes! 7pm works for me."},
		{"charlie", "alice", "Can you send me the slides from today?"},
		{"alice", "charlie", "Sure, sending them over now."},
	}

	for _, m := range conversation {
		msg, err := messageService.SendMessage(ctx, m.from, &models.CreateMessageRequest{
			RecipientUsername: m.to,
			Content:           m.content,
		})
		if err != nil {
			slog.Warn("Failed to seed message", "from", m.from, "to", m.to, "error", err)
			continue
		}
		slog.Info("Created message", "id", msg.ID, "from", m.from, "to", m.to)
	}

	slog.Info("Database seeding completed successfully!")
}
