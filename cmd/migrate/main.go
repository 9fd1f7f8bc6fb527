package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/domain"
	"github.com/Ryan-Dia/friendly-anon-pulse/internal/repository"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped successfully")

	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("✅ All tables created successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("✅ Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	for _, query := range repository.DropSchema {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		fmt.Printf("  Dropped: %s\n", query)
	}

	return nil
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	for i, query := range repository.Schema {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query %d: %w", i+1, err)
		}
	}

	fmt.Println("  Created: accounts, profiles, questions, votes, notifications, board_posts")
	return nil
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	var count int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count questions: %w", err)
	}
	if count > 0 {
		fmt.Println("  Questions already seeded, skipping")
		return nil
	}

	for i, content := range domain.DefaultQuestions {
		_, err := conn.Exec(ctx,
			`INSERT INTO questions (content, order_index, is_active) VALUES ($1, $2, $3)`,
			content, i, i == 0,
		)
		if err != nil {
			return fmt.Errorf("failed to seed question %d: %w", i+1, err)
		}
	}

	fmt.Printf("  Seeded %d default questions (first one active)\n", len(domain.DefaultQuestions))
	return nil
}
