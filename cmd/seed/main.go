// Command seed applies the database schema and loads the default categories
// plus a small set of demo users and events for local development.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"gatherly/config"
	authadapter "gatherly/internal/adapters/auth"
	"gatherly/internal/domain"
	"gatherly/internal/repository/postgres"
)

var defaultCategories = []string{"Social", "Meeting", "Workshop", "Sports", "Music"}

func main() {
	schemaPath := flag.String("schema", "migrations/schema.sql", "path to the schema file")
	withDemo := flag.Bool("demo", false, "also create demo users and events")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fail("load config: %v", err)
	}
	logger := config.NewLogger(cfg.Environment)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		fail("open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	schema, err := os.ReadFile(*schemaPath)
	if err != nil {
		fail("read schema: %v", err)
	}
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		fail("apply schema: %v", err)
	}
	logger.Info("schema applied", "path", *schemaPath)

	categoryRepo := postgres.NewCategoryRepository(db)
	for _, name := range defaultCategories {
		c := &domain.Category{Name: name}
		if err := categoryRepo.Create(ctx, c); err != nil {
			fail("seed category %q: %v", name, err)
		}
		logger.Info("category ready", "name", c.Name, "id", c.ID)
	}

	if *withDemo {
		if err := seedDemo(ctx, db, categoryRepo, logger); err != nil {
			fail("seed demo data: %v", err)
		}
	}
}

func seedDemo(ctx context.Context, db *sql.DB, categoryRepo domain.CategoryRepository, logger *slog.Logger) error {
	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	rsvpRepo := postgres.NewRSVPRepository(db)
	hasher := authadapter.NewBcryptHasher(authadapter.DefaultBcryptCost)

	now := time.Now().UTC()
	mkUser := func(email, name string) (*domain.User, error) {
		salt, err := hasher.GenerateSalt()
		if err != nil {
			return nil, err
		}
		hash, err := hasher.Hash(salt, "password123")
		if err != nil {
			return nil, err
		}
		u := domain.NewUser(email, name, hash, salt, now, now)
		if err := userRepo.Create(ctx, u); err != nil {
			if errors.Is(err, domain.ErrDuplicateEmail) {
				return userRepo.GetByEmail(ctx, email)
			}
			return nil, err
		}
		return u, nil
	}

	alice, err := mkUser("alice@example.com", "Alice Demo")
	if err != nil {
		return err
	}
	bob, err := mkUser("bob@example.com", "Bob Demo")
	if err != nil {
		return err
	}

	social, err := categoryRepo.GetByName(ctx, "Social")
	if err != nil {
		return err
	}
	workshop, err := categoryRepo.GetByName(ctx, "Workshop")
	if err != nil {
		return err
	}

	picnic := domain.NewEvent(
		"Park Picnic", "Bring a blanket and something to share.",
		now.AddDate(0, 0, 7), "Riverside Park",
		decimal.Zero, social.ID, alice.ID, now, now,
	)
	if err := eventRepo.Create(ctx, picnic); err != nil {
		return err
	}

	intro := domain.NewEvent(
		"Intro to Pottery", "Hands-on wheel throwing for beginners.",
		now.AddDate(0, 0, 14), "Clayworks Studio",
		decimal.NewFromFloat(25), workshop.ID, bob.ID, now, now,
	)
	if err := eventRepo.Create(ctx, intro); err != nil {
		return err
	}

	if _, err := rsvpRepo.Create(ctx, domain.NewRSVP(picnic.ID, bob.ID, now)); err != nil {
		return err
	}
	if _, err := rsvpRepo.Create(ctx, domain.NewRSVP(intro.ID, alice.ID, now)); err != nil {
		return err
	}

	logger.Info("demo data ready", "users", 2, "events", 2)
	return nil
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
