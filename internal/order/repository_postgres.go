package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxStockDeducter deducts stock inside a caller-owned
// transaction. inventory.PostgresRepository satisfies it.
type TxStockDeducter interface {
	DeductTx(ctx context.Context, tx pgx.Tx, required map[string]int) error
}

type PostgresRepository struct {
	db    *pgxpool.Pool
	stock TxStockDeducter
}

func NewPostgresRepository(db *pgxpool.Pool, stock TxStockDeducter) *PostgresRepository {
	return &PostgresRepository{db: db, stock: stock}
}

func (r *PostgresRepository) Create(ctx context.Context, order *Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO orders (
			id, customer_id, address, payment_ref, delivery_time,
			total, payable_total, vip_discount, status, requested_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		order.ID,
		order.CustomerID,
		order.Address,
		order.PaymentRef,
		order.DeliveryTime,
		order.Total,
		order.PayableTotal,
		order.VIPDiscount,
		order.Status,
		order.RequestedAt,
	); err != nil {
		return err
	}

	for _, item := range order.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (
				id, order_id, menu_id, menu_name, menu_price,
				style_id, style_name, style_price,
				quantity, unit_price, line_total
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`,
			item.ID,
			order.ID,
			item.MenuID,
			item.MenuName,
			item.MenuPrice,
			item.StyleID,
			item.StyleName,
			item.StylePrice,
			item.Quantity,
			item.UnitPrice,
			item.LineTotal,
		); err != nil {
			return err
		}

		for _, option := range item.Options {
			if _, err := tx.Exec(ctx, `
				INSERT INTO order_item_options (
					order_item_id, option_id, name, quantity,
					unit_price, default_qty, inventory_id, consumption_per_unit
				)
				VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
			`,
				item.ID,
				option.OptionID,
				option.Name,
				option.Quantity,
				option.UnitPrice,
				option.DefaultQty,
				option.InventoryID,
				option.ConsumptionPerUnit,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*Order, error) {
	var o Order
	err := r.db.QueryRow(ctx, `
		SELECT id, customer_id, address, payment_ref, delivery_time,
		       total, payable_total, vip_discount, status, requested_at,
		       cooking_at, cooked_at, delivering_at, done_at, canceled_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&o.ID,
		&o.CustomerID,
		&o.Address,
		&o.PaymentRef,
		&o.DeliveryTime,
		&o.Total,
		&o.PayableTotal,
		&o.VIPDiscount,
		&o.Status,
		&o.RequestedAt,
		&o.CookingAt,
		&o.CookedAt,
		&o.DeliveringAt,
		&o.DoneAt,
		&o.CanceledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, o *Order) error {
	rows, err := r.db.Query(ctx, `
		SELECT id, menu_id, menu_name, menu_price,
		       style_id, style_name, style_price,
		       quantity, unit_price, line_total
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.ID,
			&item.MenuID,
			&item.MenuName,
			&item.MenuPrice,
			&item.StyleID,
			&item.StyleName,
			&item.StylePrice,
			&item.Quantity,
			&item.UnitPrice,
			&item.LineTotal,
		); err != nil {
			return err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range o.Items {
		optionRows, err := r.db.Query(ctx, `
			SELECT option_id, name, quantity, unit_price, default_qty,
			       COALESCE(inventory_id, ''), consumption_per_unit
			FROM order_item_options
			WHERE order_item_id = $1
			ORDER BY option_id
		`, o.Items[i].ID)
		if err != nil {
			return err
		}

		for optionRows.Next() {
			var option ItemOption
			if err := optionRows.Scan(
				&option.OptionID,
				&option.Name,
				&option.Quantity,
				&option.UnitPrice,
				&option.DefaultQty,
				&option.InventoryID,
				&option.ConsumptionPerUnit,
			); err != nil {
				optionRows.Close()
				return err
			}
			o.Items[i].Options = append(o.Items[i].Options, option)
		}
		optionRows.Close()
		if err := optionRows.Err(); err != nil {
			return err
		}
	}

	return nil
}

func (r *PostgresRepository) ListByCustomer(ctx context.Context, customerID string) ([]*Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id
		FROM orders
		WHERE customer_id = $1
		ORDER BY requested_at
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	orders := make([]*Order, 0, len(ids))
	for _, id := range ids {
		o, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// UpdateStatus persists a transition only while the stored status
// still matches: the WHERE clause is the optimistic guard against
// two racing transitions.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, orderID string, expected, next Status, at time.Time) error {
	return r.casStatus(ctx, r.db, orderID, expected, next, at)
}

// UpdateStatusAndDeduct runs the status compare-and-set and the
// stock decrements in one transaction: if either side fails, the
// rollback reverts both, so a lost race or a shortage never
// leaves a stray deduction behind.
func (r *PostgresRepository) UpdateStatusAndDeduct(ctx context.Context, orderID string, expected, next Status, at time.Time, required map[string]int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := r.casStatus(ctx, tx, orderID, expected, next, at); err != nil {
		return err
	}
	if len(required) > 0 {
		if err := r.stock.DeductTx(ctx, tx, required); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// execer covers both the pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *PostgresRepository) casStatus(ctx context.Context, db execer, orderID string, expected, next Status, at time.Time) error {
	column := map[Status]string{
		StatusCooking:    "cooking_at",
		StatusCooked:     "cooked_at",
		StatusDelivering: "delivering_at",
		StatusDone:       "done_at",
		StatusCanceled:   "canceled_at",
	}[next]
	if column == "" {
		return ErrStatusConflict
	}

	tag, err := db.Exec(ctx, `
		UPDATE orders
		SET status = $3, `+column+` = $4
		WHERE id = $1 AND status = $2
	`, orderID, expected, next, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	// order_items and order_item_options cascade from the order row.
	tag, err := r.db.Exec(ctx, `
		DELETE FROM orders
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}
