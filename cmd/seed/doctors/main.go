package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/healthmate/healthmate-api/internal/config"
	"github.com/healthmate/healthmate-api/internal/domain"
	"github.com/healthmate/healthmate-api/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatalf("Failed to connect to Mongo: %v", err)
	}
	defer client.Disconnect(context.Background())

	repo := repository.NewMongoDoctorRepository(client.Database(cfg.MongoDB.Database))

	existing, _, err := repo.List(ctx, domain.DoctorFilter{}, domain.Page{Number: 1, Limit: 1000})
	if err != nil {
		log.Fatalf("Failed to list doctors: %v", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, d := range existing {
		seen[d.Name] = true
	}

	morning := []string{"08:00", "08:30", "09:00", "09:30", "10:00", "10:30"}
	afternoon := []string{"13:30", "14:00", "14:30", "15:00", "15:30", "16:00"}

	doctors := []domain.Doctor{
		{Name: "Dr. Nguyen Van An", Specialty: "General Practice", Qualification: "MD", AvailableSlots: append(morning, afternoon...)},
		{Name: "Dr. Tran Thi Binh", Specialty: "Cardiology", Qualification: "MD, PhD", AvailableSlots: morning},
		{Name: "Dr. Le Minh Chau", Specialty: "Endocrinology", Qualification: "MD", AvailableSlots: afternoon},
		{Name: "Dr. Pham Quoc Dung", Specialty: "Nutrition", Qualification: "MSc", AvailableSlots: morning},
		{Name: "Dr. Hoang Thu Ha", Specialty: "Psychiatry", Qualification: "MD", AvailableSlots: afternoon},
		{Name: "Dr. Vo Duc Khang", Specialty: "Sports Medicine", Qualification: "MD", AvailableSlots: append(morning, afternoon...)},
		{Name: "Dr. Dang My Linh", Specialty: "Sleep Medicine", Qualification: "MD", AvailableSlots: afternoon, Status: domain.DoctorBusy},
	}

	for _, d := range doctors {
		if seen[d.Name] {
			fmt.Printf("Skipping existing: %s\n", d.Name)
			continue
		}
		if err := repo.Create(ctx, &d); err != nil {
			log.Printf("Error creating %s: %v\n", d.Name, err)
			continue
		}
		fmt.Printf("Created: %s (%s)\n", d.Name, d.Specialty)
	}
	fmt.Println("Seeding Doctors Complete.")
}
