package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/vonga-club/api/internal/config"
	"github.com/vonga-club/api/internal/database"
	"github.com/vonga-club/api/internal/enum"
	"github.com/vonga-club/api/internal/payments"
	"github.com/vonga-club/api/internal/service"
)

func main() {
	// CLI flags
	email := flag.String("email", "", "Admin email address")
	password := flag.String("password", "", "Admin password")
	name := flag.String("name", "", "Admin full name")
	demo := flag.Bool("demo", false, "Also seed a demo order")
	flag.Parse()

	// Fall back to environment variables
	if *email == "" {
		*email = os.Getenv("ADMIN_EMAIL")
	}
	if *password == "" {
		*password = os.Getenv("ADMIN_PASSWORD")
	}
	if *name == "" {
		*name = os.Getenv("ADMIN_NAME")
	}

	// Fall back to defaults
	if *email == "" {
		*email = "admin@vonga.io"
	}
	if *password == "" {
		*password = "password123"
		log.Println("WARNING: Using default password 'password123'. Change immediately in production!")
	}
	if *name == "" {
		*name = "Vonga Admin"
	}

	cfg := config.Load()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	log.Println("Connected to database")

	queries := database.New(pool)

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user, err := queries.CreateUser(ctx, database.CreateUserParams{
		Email:          *email,
		FullName:       *name,
		HashedPassword: string(hashed),
		Role:           enum.UserRoleAdmin,
	})
	if err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}
	log.Printf("Admin user '%s' ready (ID: %s)", user.Email, user.ID)

	if *demo {
		order, err := seedDemoOrder(ctx, queries)
		if err != nil {
			log.Fatalf("Failed to seed demo order: %v", err)
		}
		log.Printf("Demo order ready (ID: %s)", order.ID)
	}

	log.Println("Seed completed successfully")
}

// seedDemoOrder creates a deposit-paid order the admin dashboard can walk
// through the full lifecycle.
func seedDemoOrder(ctx context.Context, queries *database.Queries) (database.ClubOrder, error) {
	items := []payments.CartItem{
		{GearType: "Jersey", SizeRun: map[string]int32{"S": 10, "M": 20, "L": 15, "XL": 5}},
		{GearType: "Hoodie", SizeRun: map[string]int32{"M": 15, "L": 10}},
	}
	subtotal := decimal.NewFromInt(10000)
	schedule := service.ComputeSchedule(subtotal)

	svc := service.NewOrderService(queries)
	order, created, err := svc.CreateFromDeposit(ctx, service.DepositCompletion{
		SessionID:       "cs_seed_demo_order",
		PaymentIntentID: "pi_seed_demo_order",
		ContactName:     "Jordan Lee",
		Phone:           "+1 555 0100",
		Pending: payments.PendingOrder{
			OrganizationName: "Thunder FC",
			Email:            "orders@thunderfc.example",
			KitType:          enum.KitTypePro,
			MemberCount:      75,
			CartItems:        items,
			TotalUnits:       payments.TotalUnits(items),
			Subtotal:         subtotal,
			DepositAmount:    schedule.Deposit,
			SecondPayment:    schedule.Second,
			FinalPayment:     schedule.Final,
		},
	})
	if err != nil {
		return database.ClubOrder{}, err
	}
	if !created {
		log.Println("Demo order already exists, skipping")
	}
	return order, nil
}
