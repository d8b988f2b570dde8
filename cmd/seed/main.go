// Command main runs the database seeder for ReelHub.
package main

import (
	"context"
	"flag"
	"log"

	"reelhub/internal/config"
	"reelhub/internal/database"
	"reelhub/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()

	// Parse command line flags
	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	numPosts := flag.Int("posts", defaults.NumPosts, "Number of posts to create")
	follows := flag.Int("follows", defaults.FollowsPerUser, "Accounts each user follows")
	likes := flag.Int("likes", defaults.LikesPerUser, "Posts each user likes")
	reportRatio := flag.Float64("report-ratio", defaults.ReportRatio, "Share of posts that receive reports")
	maxDays := flag.Int("max-days", defaults.MaxDays, "Spread post creation over this many days")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fast := flag.Bool("fast", false, "Skip bcrypt hashing of the shared password")
	randSeed := flag.Int64("seed", 0, "Random seed for a reproducible run")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d posts, clean=%v\n", *numUsers, *numPosts, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		NumUsers:       *numUsers,
		NumPosts:       *numPosts,
		FollowsPerUser: *follows,
		LikesPerUser:   *likes,
		ReportRatio:    *reportRatio,
		MaxDays:        *maxDays,
		ShouldClean:    *shouldClean,
		SkipBcrypt:     *fast,
		RandSeed:       *randSeed,
	})
	summary, err := s.Seed(context.Background())
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✨ All done! users=%d posts=%d follows=%d likes=%d reports=%d",
		summary.Users, summary.Posts, summary.Follows, summary.Likes, summary.Reports)
	log.Printf("📧 All seeded users have the password: %s (moderator account: moderator)", seed.DefaultPassword)
}
