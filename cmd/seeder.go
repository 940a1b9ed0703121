package cmd

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	gormpostgres "gorm.io/driver/postgres"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample users, listings, bookings and reviews for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{TranslateError: true})
		if err != nil {
			log.Fatalf("failed to open gorm session: %v", err)
		}

		if clearData {
			fmt.Println("Clearing existing data...")
			for _, table := range []string{"reviews", "payments", "bookings", "listings"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
		}

		hostID := seedUser(db, "admin@example.com", "Admin", "Host", "adminpassword")
		guestIDs := []int64{
			seedUser(db, "guest1@example.com", "Guest", "One", "guestpassword"),
			seedUser(db, "guest2@example.com", "Guest", "Two", "guestpassword"),
		}

		listings := []struct {
			Title       string
			Description string
			Address     string
			City        string
			Country     string
			Price       string
			MaxGuests   int
			Bedrooms    int
			Bathrooms   int
			Amenities   string
			IsActive    bool
		}{
			{"Cozy Apartment in City Center", "A beautiful and cozy apartment right in the heart of the city.", "123 Main St", "New York", "USA", "150.00", 4, 2, 1, "Wifi,Kitchen,TV,Air Conditioning", true},
			{"Spacious Family House with Garden", "Perfect for families, with a large garden and close to parks.", "456 Oak Ave", "Los Angeles", "USA", "250.00", 8, 4, 2, "Wifi,Parking,Garden,BBQ,Washer", true},
			{"Beachfront Villa with Ocean View", "Stunning villa with direct beach access and breathtaking views.", "789 Ocean Dr", "Miami", "USA", "400.00", 6, 3, 3, "Wifi,Pool,Beach Access,Balcony", true},
			{"Rustic Cabin in the Woods", "Escape to nature in this charming, secluded cabin.", "101 Forest Rd", "Asheville", "USA", "120.00", 2, 1, 1, "Fireplace,Hiking Trails,Pet-friendly", true},
			{"Modern Loft in Downtown", "Stylish loft with city views, ideal for solo travelers or couples.", "222 Tech St", "San Francisco", "USA", "180.00", 2, 1, 1, "Wifi,Gym,Elevator,City View", false},
		}

		type seededListing struct {
			ID    int64
			Price decimal.Decimal
		}
		var created []seededListing

		for _, l := range listings {
			var id int64
			row := db.Raw("SELECT id FROM listings WHERE title = ? AND host_id = ?", l.Title, hostID).Row()
			if err := row.Scan(&id); err != nil {
				err := db.Raw(`INSERT INTO listings
					(host_id, title, description, address, city, country, price_per_night, max_guests, bedrooms, bathrooms, amenities, is_active, created_at, updated_at)
					VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, now(), now())
					RETURNING id`,
					hostID, l.Title, l.Description, l.Address, l.City, l.Country, l.Price, l.MaxGuests, l.Bedrooms, l.Bathrooms, l.Amenities, l.IsActive,
				).Row().Scan(&id)
				if err != nil {
					log.Fatalf("failed to insert listing %s: %v", l.Title, err)
				}
				fmt.Println("Created listing:", l.Title)
			}
			if l.IsActive {
				created = append(created, seededListing{ID: id, Price: decimal.RequireFromString(l.Price)})
			}
		}

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		today := time.Now().Truncate(24 * time.Hour)
		statuses := []string{"pending", "confirmed", "completed"}

		bookingCount := 0
		for i := 0; i < 5; i++ {
			l := created[rng.Intn(len(created))]
			guestID := guestIDs[rng.Intn(len(guestIDs))]
			checkIn := today.AddDate(0, 0, 5+rng.Intn(26))
			nights := 2 + rng.Intn(6)
			checkOut := checkIn.AddDate(0, 0, nights)
			totalPrice := l.Price.Mul(decimal.NewFromInt(int64(nights)))
			status := statuses[rng.Intn(len(statuses))]

			// the composite unique index on the stay tolerates re-runs
			res := db.Exec(`INSERT INTO bookings
				(listing_id, guest_id, check_in_date, check_out_date, num_guests, total_price, status, created_at, updated_at)
				VALUES (?, ?, ?, ?, 2, ?, ?, now(), now())
				ON CONFLICT DO NOTHING`,
				l.ID, guestID, checkIn, checkOut, totalPrice.StringFixed(2), status,
			)
			if res.Error != nil {
				log.Fatalf("failed to insert booking: %v", res.Error)
			}
			bookingCount += int(res.RowsAffected)
		}
		fmt.Printf("Created %d bookings\n", bookingCount)

		comments := []string{
			"Great stay!",
			"Highly recommended.",
			"Clean and comfortable.",
			"Excellent location.",
			"Enjoyed my time here.",
			"",
		}

		rows, err := db.Raw(`SELECT b.id, b.listing_id, b.guest_id FROM bookings b
			WHERE b.status = 'completed'
			AND NOT EXISTS (SELECT 1 FROM reviews r WHERE r.booking_id = b.id)`).Rows()
		if err != nil {
			log.Fatalf("failed to query completed bookings: %v", err)
		}
		defer rows.Close()

		type pendingReview struct {
			BookingID int64
			ListingID int64
			GuestID   int64
		}
		var pending []pendingReview
		for rows.Next() {
			var p pendingReview
			if err := rows.Scan(&p.BookingID, &p.ListingID, &p.GuestID); err != nil {
				log.Fatalf("failed to scan booking: %v", err)
			}
			pending = append(pending, p)
		}

		for _, p := range pending {
			rating := 3 + rng.Intn(3)
			comment := comments[rng.Intn(len(comments))]
			if err := db.Exec(`INSERT INTO reviews (booking_id, listing_id, guest_id, rating, comment, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, now(), now())`,
				p.BookingID, p.ListingID, p.GuestID, rating, comment,
			).Error; err != nil {
				log.Fatalf("failed to insert review for booking %d: %v", p.BookingID, err)
			}
		}
		fmt.Printf("Created %d reviews for completed bookings\n", len(pending))

		fmt.Println("Database seeding complete")
	},
}

func seedUser(db *gorm.DB, email, firstName, lastName, password string) int64 {
	var id int64
	row := db.Raw("SELECT id FROM users WHERE email = ?", email).Row()
	if err := row.Scan(&id); err == nil {
		fmt.Printf("user %s already exists, skipping\n", email)
		return id
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password for %s: %v", email, err)
	}

	err = db.Raw(`INSERT INTO users (email, first_name, last_name, password_hash, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, true, now(), now()) RETURNING id`,
		email, firstName, lastName, string(hash),
	).Row().Scan(&id)
	if err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}
	fmt.Println("Seeded user:", email)
	return id
}
