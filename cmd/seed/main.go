// Command seed creates demo accounts with starting balances for local
// development.
package main

import (
	"context"
	"log"

	"peerpay/internal/config"
	"peerpay/internal/models"
	"peerpay/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

type seedAccount struct {
	name     string
	username string
	email    string
	password string
	balance  int64
}

var demoAccounts = []seedAccount{
	{"Alice Demo", "alice", "alice@example.com", "alice-demo-1!", 10000},
	{"Bob Demo", "bob", "bob@example.com", "bob-demo-1!", 5000},
	{"Carol Demo", "carol", "carol@example.com", "carol-demo-1!", 0},
}

func main() {
	config.LoadEnv()

	db, err := repositories.InitDB(repositories.DefaultDBConfig())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}()

	ctx := context.Background()
	accounts := repositories.NewAccountRepository(db)

	for _, demo := range demoAccounts {
		if _, err := accounts.GetByUsername(ctx, demo.username); err == nil {
			log.Printf("Account %q already exists, skipping", demo.username)
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(demo.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password for %q: %v", demo.username, err)
		}

		account := &models.Account{
			Name:     demo.name,
			Username: demo.username,
			Email:    demo.email,
			Password: string(hashed),
			Balance:  demo.balance,
			Status:   models.AccountStatusActive,
		}
		if err := accounts.Create(ctx, account); err != nil {
			log.Fatalf("Failed to create account %q: %v", demo.username, err)
		}
		log.Printf("Created account %q with balance %d", demo.username, demo.balance)
	}

	log.Println("Seeding complete")
}
