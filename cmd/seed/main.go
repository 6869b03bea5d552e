// Command main runs the database seeder for Scribe.
package main

import (
	"context"
	"flag"
	"log"

	"scribe/internal/bootstrap"
	"scribe/internal/config"
	"scribe/internal/seed"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	numPosts := flag.Int("posts", 60, "Number of posts to create")
	maxDays := flag.Int("days", 90, "Spread post dates over this many days")
	fixture := flag.String("fixture", "", "Load a YAML fixture instead of generating data")
	shouldClean := flag.Bool("clean", false, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db, bcrypt.DefaultCost)

	if *shouldClean {
		if err := s.Clear(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if *fixture != "" {
		fx, err := seed.LoadFixtureFile(*fixture)
		if err != nil {
			log.Fatalf("Failed to load fixture: %v", err)
		}
		if err := s.Apply(ctx, fx); err != nil {
			log.Fatalf("Fixture seeding failed: %v", err)
		}
		log.Printf("Loaded fixture %s", *fixture)
		return
	}

	log.Printf("Target: %d users, %d posts, clean=%v", *numUsers, *numPosts, *shouldClean)
	if _, err := s.Generate(ctx, seed.Options{NumUsers: *numUsers, NumPosts: *numPosts, MaxDays: *maxDays}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Done. Generated users have the password: %s", seed.DefaultPassword)
}
