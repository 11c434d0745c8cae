package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save rewrites the cart's item rows wholesale inside one
// transaction. Carts are small; replacing the rows is simpler
// than diffing them.
func (r *PostgresRepository) Save(ctx context.Context, cart *Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO carts (id, customer_id)
		VALUES ($1, $2)
		ON CONFLICT (customer_id) DO NOTHING
	`, cart.ID, cart.CustomerID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM cart_items
		WHERE cart_id = $1
	`, cart.ID); err != nil {
		return err
	}

	for _, item := range cart.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO cart_items (
				id, cart_id, menu_id, menu_name,
				style_id, style_name, quantity, unit_price, line_total
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`,
			item.ID,
			cart.ID,
			item.MenuID,
			item.MenuName,
			item.StyleID,
			item.StyleName,
			item.Quantity,
			item.UnitPrice,
			item.LineTotal,
		); err != nil {
			return err
		}

		for _, option := range item.Options {
			if _, err := tx.Exec(ctx, `
				INSERT INTO cart_item_options (cart_item_id, option_id, name, quantity)
				VALUES ($1, $2, $3, $4)
			`, item.ID, option.OptionID, option.Name, option.Quantity); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepository) FindByCustomer(ctx context.Context, customerID string) (*Cart, error) {
	var cart Cart
	err := r.db.QueryRow(ctx, `
		SELECT id, customer_id
		FROM carts
		WHERE customer_id = $1
	`, customerID).Scan(&cart.ID, &cart.CustomerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, menu_id, menu_name, style_id, style_name,
		       quantity, unit_price, line_total
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY id
	`, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.ID,
			&item.MenuID,
			&item.MenuName,
			&item.StyleID,
			&item.StyleName,
			&item.Quantity,
			&item.UnitPrice,
			&item.LineTotal,
		); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range cart.Items {
		optionRows, err := r.db.Query(ctx, `
			SELECT option_id, name, quantity
			FROM cart_item_options
			WHERE cart_item_id = $1
			ORDER BY option_id
		`, cart.Items[i].ID)
		if err != nil {
			return nil, err
		}

		for optionRows.Next() {
			var option ItemOption
			if err := optionRows.Scan(&option.OptionID, &option.Name, &option.Quantity); err != nil {
				optionRows.Close()
				return nil, err
			}
			cart.Items[i].Options = append(cart.Items[i].Options, option)
		}
		optionRows.Close()
		if err := optionRows.Err(); err != nil {
			return nil, err
		}
	}

	return &cart, nil
}

func (r *PostgresRepository) DeleteByCustomer(ctx context.Context, customerID string) error {
	// cart_items and cart_item_options cascade from the cart row.
	_, err := r.db.Exec(ctx, `
		DELETE FROM carts
		WHERE customer_id = $1
	`, customerID)
	return err
}
