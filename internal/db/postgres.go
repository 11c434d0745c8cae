package db

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectPostgres() *pgxpool.Pool {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Fatal(err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatal(err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal("Postgres connection failed:", err)
	}

	log.Println("✅ Connected to PostgreSQL")

	// Initialize schema
	if err := initSchema(pool); err != nil {
		log.Fatal("Failed to initialize schema:", err)
	}

	return pool
}

// initSchema creates or updates the database schema
func initSchema(pool *pgxpool.Pool) error {
	ctx := context.Background()

	statements := []string{
		// -------------------------------
		// CUSTOMERS
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS customers (
			id UUID PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			phone VARCHAR(50) NOT NULL DEFAULT '',
			role VARCHAR(50) NOT NULL DEFAULT 'CUSTOMER',
			order_count INT NOT NULL DEFAULT 0,
			grade VARCHAR(10) NOT NULL DEFAULT 'BASIC',
			vip_since TIMESTAMP NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// -------------------------------
		// CATALOG
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS menus (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			price INT NOT NULL,
			image_url VARCHAR(500) NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS serving_styles (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			extra_price INT NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT TRUE
		)`,

		`CREATE TABLE IF NOT EXISTS inventory (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			quantity INT NOT NULL,
			baseline INT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS menu_options (
			id UUID PRIMARY KEY,
			menu_id UUID NOT NULL REFERENCES menus(id),
			name VARCHAR(255) NOT NULL,
			unit_price INT NOT NULL,
			default_qty INT NOT NULL DEFAULT 0,
			inventory_id UUID NULL REFERENCES inventory(id),
			consumption_per_unit INT NOT NULL DEFAULT 0
		)`,

		// -------------------------------
		// CARTS
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS carts (
			id UUID PRIMARY KEY,
			customer_id UUID UNIQUE NOT NULL REFERENCES customers(id)
		)`,

		`CREATE TABLE IF NOT EXISTS cart_items (
			id UUID PRIMARY KEY,
			cart_id UUID NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
			menu_id UUID NOT NULL,
			menu_name VARCHAR(255) NOT NULL,
			style_id UUID NOT NULL,
			style_name VARCHAR(255) NOT NULL,
			quantity INT NOT NULL,
			unit_price INT NOT NULL,
			line_total INT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS cart_item_options (
			cart_item_id UUID NOT NULL REFERENCES cart_items(id) ON DELETE CASCADE,
			option_id UUID NOT NULL,
			name VARCHAR(255) NOT NULL,
			quantity INT NOT NULL,
			PRIMARY KEY (cart_item_id, option_id)
		)`,

		// -------------------------------
		// ORDERS (items snapshot prices at order time)
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			customer_id UUID NOT NULL REFERENCES customers(id),
			address VARCHAR(500) NOT NULL,
			payment_ref VARCHAR(255) NOT NULL,
			delivery_time TIMESTAMP NOT NULL,
			total INT NOT NULL,
			payable_total INT NOT NULL,
			vip_discount BOOLEAN NOT NULL DEFAULT FALSE,
			status VARCHAR(20) NOT NULL,
			requested_at TIMESTAMP NOT NULL,
			cooking_at TIMESTAMP NULL,
			cooked_at TIMESTAMP NULL,
			delivering_at TIMESTAMP NULL,
			done_at TIMESTAMP NULL,
			canceled_at TIMESTAMP NULL
		)`,

		`CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			menu_id UUID NOT NULL,
			menu_name VARCHAR(255) NOT NULL,
			menu_price INT NOT NULL,
			style_id UUID NOT NULL,
			style_name VARCHAR(255) NOT NULL,
			style_price INT NOT NULL,
			quantity INT NOT NULL,
			unit_price INT NOT NULL,
			line_total INT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS order_item_options (
			order_item_id UUID NOT NULL REFERENCES order_items(id) ON DELETE CASCADE,
			option_id UUID NOT NULL,
			name VARCHAR(255) NOT NULL,
			quantity INT NOT NULL,
			unit_price INT NOT NULL,
			default_qty INT NOT NULL,
			inventory_id UUID NULL,
			consumption_per_unit INT NOT NULL DEFAULT 0,
			PRIMARY KEY (order_item_id, option_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	log.Println("✅ Schema initialized successfully")
	return nil
}
