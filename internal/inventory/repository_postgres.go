package inventory

import (
	"context"
	"errors"
	"sort"

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

func (r *PostgresRepository) SaveEntry(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO inventory (id, name, quantity, baseline)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    quantity = EXCLUDED.quantity,
		    baseline = EXCLUDED.baseline
	`, entry.ID, entry.Name, entry.Quantity, entry.Baseline)
	return err
}

func (r *PostgresRepository) FindEntry(ctx context.Context, id string) (*Entry, error) {
	var entry Entry
	err := r.db.QueryRow(ctx, `
		SELECT id, name, quantity, baseline
		FROM inventory
		WHERE id = $1
	`, id).Scan(&entry.ID, &entry.Name, &entry.Quantity, &entry.Baseline)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *PostgresRepository) ListEntries(ctx context.Context) ([]*Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, quantity, baseline
		FROM inventory
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.Name, &entry.Quantity, &entry.Baseline); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// Deduct locks the touched rows inside one transaction so two
// orders racing for the same ingredient cannot both pass the
// check.
func (r *PostgresRepository) Deduct(ctx context.Context, required map[string]int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := r.DeductTx(ctx, tx, required); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// DeductTx runs the two-phase deduction inside a caller-owned
// transaction, so a caller can tie the decrements to its own
// writes and roll everything back together. Rows are locked in a
// stable id order to avoid deadlocks between concurrent orders.
func (r *PostgresRepository) DeductTx(ctx context.Context, tx pgx.Tx, required map[string]int) error {
	ids := make([]string, 0, len(required))
	for id := range required {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// Phase 1: lock and check every row.
	for _, id := range ids {
		var entry Entry
		err := tx.QueryRow(ctx, `
			SELECT id, name, quantity
			FROM inventory
			WHERE id = $1
			FOR UPDATE
		`, id).Scan(&entry.ID, &entry.Name, &entry.Quantity)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrEntryNotFound
			}
			return err
		}

		if entry.Quantity < required[id] {
			return &InsufficientStockError{
				EntryID:   entry.ID,
				Name:      entry.Name,
				Required:  required[id],
				Available: entry.Quantity,
			}
		}
	}

	// Phase 2: commit the decrements.
	for _, id := range ids {
		if _, err := tx.Exec(ctx, `
			UPDATE inventory
			SET quantity = quantity - $2
			WHERE id = $1
		`, id, required[id]); err != nil {
			return err
		}
	}

	return nil
}

func (r *PostgresRepository) ResetAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		UPDATE inventory
		SET quantity = baseline
	`)
	return err
}
