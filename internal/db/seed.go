package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"gorm.io/gorm"
)

var seedLocations = []string{"UM", "MSU", "Ann Arbor", "East Lansing", "Detroit"}

var seedLeases = []string{"", "6 months", "12 months", "academic year"}

var seedLifestyles = []map[string]string{
	{"noise": "quiet", "pets": "none", "smoking": "none", "cleanliness": "high"},
	{"noise": "moderate", "guests": "occasional", "partying": "moderate"},
	{"noise": "loud", "partying": "frequent", "guests": "frequent"},
	{"cleanliness": "moderate", "study": "high", "smoking": "none"},
}

// SeedTestData resets the database and populates it with demo profiles
// and interaction history.
//
// Behavior:
//  1. Clears existing data in all three tables.
//  2. Creates 20 profiles with varied budgets, locations and lifestyles.
//  3. Generates ~150 like/pass events with ~70% likes; every 3rd like
//     also inserts the reciprocal like so mutual pairs exist out of the
//     box (match rows are still only created by the like flow).
//
// Compatible with both MySQL and SQLite.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"matches", "interactions", "profiles"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE interactions AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE matches AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name = 'interactions'")
		db.Exec("DELETE FROM sqlite_sequence WHERE name = 'matches'")
	}

	log.Println("Cleared existing data")

	// --- Seed Profiles ---
	for i := 1; i <= 20; i++ {
		p := Profile{
			ID:            fmt.Sprintf("user-%d", i),
			Name:          fmt.Sprintf("User %d", i),
			Age:           18 + r.Intn(10),
			Budget:        float64(600 + 100*r.Intn(10)),
			Location:      seedLocations[r.Intn(len(seedLocations))],
			LeaseDuration: seedLeases[r.Intn(len(seedLeases))],
			Lifestyle:     seedLifestyles[r.Intn(len(seedLifestyles))],
			University:    "University of Michigan",
		}
		if err := db.Create(&p).Error; err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}
	}
	log.Println("Seeded 20 profiles.")

	// --- Seed Interactions ---
	counter := 0
	for i := 1; i <= 20; i++ {
		from := fmt.Sprintf("user-%d", i)
		for j := 0; j < 8; j++ {
			n := r.Intn(20) + 1
			if n == i {
				continue
			}
			to := fmt.Sprintf("user-%d", n)

			kind := KindPass
			if r.Intn(100) < 70 {
				kind = KindLike
			}

			// guarantee some mutual likes
			if counter%3 == 0 {
				kind = KindLike
				recip := Interaction{FromUserID: to, ToUserID: from, Kind: KindLike}
				if err := db.Create(&recip).Error; err != nil {
					return fmt.Errorf("failed to seed interaction: %w", err)
				}
			}

			event := Interaction{FromUserID: from, ToUserID: to, Kind: kind}
			if err := db.Create(&event).Error; err != nil {
				return fmt.Errorf("failed to seed interaction: %w", err)
			}
			counter++
		}
	}

	return nil
}

// SeedMinimalTestData inserts the small deterministic dataset used by
// service tests: three profiles and the interaction history covering the
// mutual, one-sided and passed cases.
func SeedMinimalTestData(db *gorm.DB) error {
	for _, table := range []string{"matches", "interactions", "profiles"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}

	profiles := []Profile{
		{ID: "alice", Name: "Alice", Budget: 1200, Location: "UM",
			Lifestyle: map[string]string{"noise": "quiet"}},
		{ID: "bob", Name: "Bob", Budget: 1000, Location: "UM",
			Lifestyle: map[string]string{"noise": "quiet"}},
		{ID: "carol", Name: "Carol", Budget: 700, Location: "MSU",
			Lifestyle: map[string]string{"noise": "loud"}},
	}
	if err := db.Create(&profiles).Error; err != nil {
		return err
	}

	interactions := []Interaction{
		{FromUserID: "alice", ToUserID: "bob", Kind: KindLike},  // alice → bob
		{FromUserID: "carol", ToUserID: "alice", Kind: KindLike}, // carol → alice (one-sided)
		{FromUserID: "alice", ToUserID: "carol", Kind: KindPass}, // alice → carol (pass)
	}
	if err := db.Create(&interactions).Error; err != nil {
		return err
	}

	return nil
}
