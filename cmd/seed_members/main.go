package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Biswajit213/gym-management/internal/database"
	"github.com/Biswajit213/gym-management/internal/models"
	"github.com/Biswajit213/gym-management/internal/store"

	"github.com/google/uuid"
)

func main() {
	db, err := database.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Println("Connected to database successfully")

	docStore := store.NewPostgresStore(db)
	ctx := context.Background()
	now := time.Now()

	members := []models.Member{
		{FullName: "Aarav Sharma", Email: "aarav.sharma@example.com", Status: models.MemberStatusActive},
		{FullName: "Priya Patel", Email: "priya.patel@example.com", Status: models.MemberStatusActive},
		{FullName: "Rohan Gupta", Email: "rohan.gupta@example.com", Status: models.MemberStatusActive},
		{FullName: "Sneha Iyer", Email: "sneha.iyer@example.com", Status: models.MemberStatusInactive},
		{FullName: "Vikram Singh", Email: "vikram.singh@example.com", Status: models.MemberStatusActive},
	}

	for _, m := range members {
		m.ID = uuid.New().String()
		m.JoinedAt = now
		m.UpdatedAt = now

		if err := docStore.Put(ctx, store.CollectionMembers, m.ID, m); err != nil {
			log.Printf("Error seeding member %s: %v", m.Email, err)
			continue
		}
		fmt.Printf("Seeded member %s (%s)\n", m.FullName, m.ID)
	}

	fmt.Println("Member seeding completed!")
}
