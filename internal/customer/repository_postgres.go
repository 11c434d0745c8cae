package customer

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, customer *Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	if customer.Role == "" {
		customer.Role = "CUSTOMER"
	}

	query := `
		INSERT INTO customers (
			id, email, password, name, phone, role,
			order_count, grade, vip_since
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    phone = EXCLUDED.phone,
		    order_count = EXCLUDED.order_count,
		    grade = EXCLUDED.grade,
		    vip_since = EXCLUDED.vip_since
		RETURNING created_at
	`

	return r.db.QueryRow(
		ctx,
		query,
		customer.ID,
		customer.Email,
		customer.Password,
		customer.Name,
		customer.Phone,
		customer.Role,
		customer.OrderCount,
		customer.Grade,
		customer.VIPSince,
	).Scan(&customer.CreatedAt)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*Customer, error) {
	return r.findBy(ctx, "id", id)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*Customer, error) {
	return r.findBy(ctx, "email", email)
}

func (r *PostgresRepository) findBy(ctx context.Context, column, value string) (*Customer, error) {
	query := `
		SELECT id, email, password, name, phone, role,
		       order_count, grade, vip_since, created_at
		FROM customers
		WHERE ` + column + ` = $1
	`

	var cust Customer
	err := r.db.QueryRow(ctx, query, value).Scan(
		&cust.ID,
		&cust.Email,
		&cust.Password,
		&cust.Name,
		&cust.Phone,
		&cust.Role,
		&cust.OrderCount,
		&cust.Grade,
		&cust.VIPSince,
		&cust.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cust, nil
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM customers
			WHERE email = $1
		)
	`, email).Scan(&exists)
	return exists, err
}
