package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/genkan-institute/genkan-api/internal/models"
	"github.com/genkan-institute/genkan-api/internal/repository"
	"github.com/genkan-institute/genkan-api/pkg/config"
	"github.com/genkan-institute/genkan-api/pkg/database"
)

// create-admin provisions an administrator account. There is no
// self-service signup; accounts only enter the store through this tool.
func main() {
	username := flag.String("username", "", "admin username")
	password := flag.String("password", "", "admin password (falls back to ADMIN_PASSWORD)")
	flag.Parse()

	if *username == "" {
		log.Fatal("username is required")
	}
	pw := *password
	if pw == "" {
		pw = os.Getenv("ADMIN_PASSWORD")
	}
	if pw == "" {
		log.Fatal("password is required (flag or ADMIN_PASSWORD)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admin := &models.Admin{Username: *username, PasswordHash: string(hash)}
	if err := repository.NewAdminRepository(db).Create(ctx, admin); err != nil {
		log.Fatalf("failed to create admin: %v", err)
	}

	fmt.Printf("admin %q created (id %s)\n", admin.Username, admin.ID)
}
