// Command seed_library creates a database with a sample catalogue and a few
// members, for local development and demos.
// Usage: go run cmd/seed_library/main.go [-db path/to/librarian.db]
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/openshelf/librarian/internal/database"
	"github.com/openshelf/librarian/internal/database/books"
	"github.com/openshelf/librarian/internal/database/members"
	"github.com/openshelf/librarian/internal/entities"
	"github.com/openshelf/librarian/internal/sequence"
)

const defaultSeedDatabasePath = "./librarian.db"

func main() {
	dbPath := flag.String("db", defaultSeedDatabasePath, "path to the database file")
	fresh := flag.Bool("fresh", false, "remove an existing database first")
	flag.Parse()

	if *fresh {
		if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
			log.Fatalf("Failed to remove existing database: %v", err)
		}
	}

	log.Printf("Seeding library database at %s...", *dbPath)

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	seedBooks(books.NewRepository(db.DB))
	seedMembers(members.NewRepository(db.DB))

	log.Println("Library database seeded successfully!")
}

func seedBooks(store *books.Repository) {
	catalogue := []entities.Book{
		{BookNo: "PD-0001", Title: "Pride and Prejudice", Author: "Jane Austen", Genre: "Fiction", Year: 1813, Language: "English", AvailableCopies: 4, Availability: true, Location: "A-12"},
		{BookNo: "PD-0002", Title: "Moby-Dick", Author: "Herman Melville", Genre: "Fiction", Year: 1851, Language: "English", AvailableCopies: 2, Availability: true, Location: "A-03"},
		{BookNo: "PD-0003", Title: "Meditations", Author: "Marcus Aurelius", Genre: "Philosophy", Year: 180, Language: "English", AvailableCopies: 1, Availability: true, Location: "B-07"},
		{BookNo: "PD-0004", Title: "The Origin of Species", Author: "Charles Darwin", Genre: "Science", Year: 1859, Language: "English", AvailableCopies: 0, Availability: false, Location: "C-01"},
		{BookNo: "PD-0005", Title: "Crime and Punishment", Author: "Fyodor Dostoevsky", Genre: "Fiction", Year: 1866, Language: "English", AvailableCopies: 3, Availability: true, Location: "A-21"},
	}

	for i := range catalogue {
		if err := store.Create(&catalogue[i]); err != nil {
			log.Printf("Failed to save book %s: %v", catalogue[i].Title, err)
			continue
		}
		log.Printf("Saved: %s by %s", catalogue[i].Title, catalogue[i].Author)
	}
}

func seedMembers(store *members.Repository) {
	count, err := store.Count()
	if err != nil {
		log.Fatalf("Failed to count members: %v", err)
	}
	numbers := sequence.NewGenerator()
	numbers.SeedMemberSeq(count)

	now := time.Now()
	expiry := now.AddDate(1, 0, 0)

	roster := []entities.Member{
		{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", MembershipType: entities.MembershipTypePremium},
		{FirstName: "Alan", LastName: "Turing", Email: "alan@example.com", MembershipType: entities.MembershipTypeBasic},
		{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", MembershipType: entities.MembershipTypeStudent},
	}

	for i := range roster {
		member := &roster[i]
		member.MemberNumber = numbers.NextMemberNumber()
		member.JoiningDate = &now
		member.ExpiryDate = &expiry
		member.Status = entities.MemberStatusActive
		member.BorrowingLimit = member.MembershipType.BorrowingLimit()

		if err := store.Create(member); err != nil {
			log.Printf("Failed to save member %s %s: %v", member.FirstName, member.LastName, err)
			continue
		}
		log.Printf("Saved: %s %s (%s)", member.FirstName, member.LastName, member.MemberNumber)
	}
}
