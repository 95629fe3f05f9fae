package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/smileie/smileie-backend/internal/config"
	"github.com/smileie/smileie-backend/internal/database"
	"github.com/smileie/smileie-backend/internal/logger"
	"github.com/smileie/smileie-backend/internal/model"
	"github.com/smileie/smileie-backend/internal/repository"
	"github.com/smileie/smileie-backend/internal/service"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	// Account creation never touches sessions, so no session manager.
	authService := service.NewAuthService(cfg, nil, nil)
	userService := service.NewUserService(repository.NewUserRepository(pool), authService)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Dashboard User ===")

	name := prompt(reader, "Display name")
	if name == "" {
		fmt.Println("Error: Display name is required")
		return
	}

	email := prompt(reader, "Email")
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	fmt.Print("Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // Newline after password input
	if err != nil {
		fmt.Println("Error reading password")
		return
	}
	password := string(bytePassword)
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	roleStr := prompt(reader, "Role [admin|doctor|patient] (default admin)")
	if roleStr == "" {
		roleStr = string(model.RoleAdmin)
	}
	role, ok := model.ParseRole(strings.ToLower(roleStr))
	if !ok {
		fmt.Printf("Error: unknown role %q\n", roleStr)
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	user, err := userService.CreateUser(ctx, model.CreateUserRequest{
		Email:       email,
		DisplayName: name,
		Password:    password,
		Role:        role,
	})
	if errors.Is(err, service.ErrEmailTaken) {
		fmt.Printf("Error: %s is already registered\n", email)
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create user")
	}

	fmt.Printf("\nSuccess! %s '%s' (%s) created with ID: %d\n", user.Role, user.DisplayName, user.Email, user.ID)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Printf("%s: ", label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
