package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/Omarzahran17/gym-flow-sub000/internal/config"
	"github.com/Omarzahran17/gym-flow-sub000/internal/db"
	"github.com/Omarzahran17/gym-flow-sub000/internal/logger"
	"github.com/Omarzahran17/gym-flow-sub000/internal/user"

	"golang.org/x/term"
)

const minPasswordLen = 8

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	users := user.NewService(user.NewRepository(database), db.NewTxManager(database), cfg.JWTSecret)
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create GymFlow Admin ===")

	name := prompt(reader, "Name: ")
	if name == "" {
		fmt.Println("Error: name is required")
		os.Exit(1)
	}

	email := prompt(reader, "Email: ")
	if email == "" {
		fmt.Println("Error: email is required")
		os.Exit(1)
	}

	fmt.Print("Password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("Error: could not read password")
		os.Exit(1)
	}
	password := string(raw)
	if len(password) < minPasswordLen {
		fmt.Printf("Error: password must be at least %d characters\n", minPasswordLen)
		os.Exit(1)
	}

	admin, err := users.CreateAdmin(context.Background(), name, email, password)
	if errors.Is(err, user.ErrEmailExists) {
		fmt.Printf("Error: %s is already registered\n", email)
		os.Exit(1)
	}
	if err != nil {
		logger.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Admin %q (%s) created with ID %d\n", admin.Name, admin.Email, admin.ID)
}

func prompt(r *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}
