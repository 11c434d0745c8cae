package catalog

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

// --------------------------------------------------
// Menus
// --------------------------------------------------
func (r *PostgresRepository) SaveMenu(ctx context.Context, menu *Menu) error {
	if menu.ID == "" {
		menu.ID = uuid.New().String()
	}

	query := `
		INSERT INTO menus (id, name, price, image_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    price = EXCLUDED.price,
		    image_url = EXCLUDED.image_url
		RETURNING created_at
	`

	return r.db.QueryRow(
		ctx,
		query,
		menu.ID,
		menu.Name,
		menu.Price,
		menu.ImageURL,
	).Scan(&menu.CreatedAt)
}

func (r *PostgresRepository) FindMenu(ctx context.Context, id string) (*Menu, error) {
	query := `
		SELECT id, name, price, COALESCE(image_url, ''), created_at
		FROM menus
		WHERE id = $1
	`

	var menu Menu
	err := r.db.QueryRow(ctx, query, id).Scan(
		&menu.ID,
		&menu.Name,
		&menu.Price,
		&menu.ImageURL,
		&menu.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *PostgresRepository) ListMenus(ctx context.Context) ([]*Menu, error) {
	query := `
		SELECT id, name, price, COALESCE(image_url, ''), created_at
		FROM menus
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []*Menu
	for rows.Next() {
		var menu Menu
		if err := rows.Scan(
			&menu.ID,
			&menu.Name,
			&menu.Price,
			&menu.ImageURL,
			&menu.CreatedAt,
		); err != nil {
			return nil, err
		}
		menus = append(menus, &menu)
	}
	return menus, rows.Err()
}

func (r *PostgresRepository) SetMenuImage(ctx context.Context, id, imageURL string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE menus
		SET image_url = $2
		WHERE id = $1
	`, id, imageURL)
	return err
}

// --------------------------------------------------
// Serving styles
// --------------------------------------------------
func (r *PostgresRepository) SaveStyle(ctx context.Context, style *ServingStyle) error {
	if style.ID == "" {
		style.ID = uuid.New().String()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO serving_styles (id, name, extra_price, active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    extra_price = EXCLUDED.extra_price,
		    active = EXCLUDED.active
	`, style.ID, style.Name, style.ExtraPrice, style.Active)
	return err
}

func (r *PostgresRepository) FindStyle(ctx context.Context, id string) (*ServingStyle, error) {
	var style ServingStyle
	err := r.db.QueryRow(ctx, `
		SELECT id, name, extra_price, active
		FROM serving_styles
		WHERE id = $1
	`, id).Scan(&style.ID, &style.Name, &style.ExtraPrice, &style.Active)
	if err != nil {
		return nil, err
	}
	return &style, nil
}

func (r *PostgresRepository) ListStyles(ctx context.Context, activeOnly bool) ([]*ServingStyle, error) {
	query := `
		SELECT id, name, extra_price, active
		FROM serving_styles
		WHERE active OR NOT $1
		ORDER BY extra_price
	`

	rows, err := r.db.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var styles []*ServingStyle
	for rows.Next() {
		var style ServingStyle
		if err := rows.Scan(&style.ID, &style.Name, &style.ExtraPrice, &style.Active); err != nil {
			return nil, err
		}
		styles = append(styles, &style)
	}
	return styles, rows.Err()
}

// --------------------------------------------------
// Menu options
// --------------------------------------------------
func (r *PostgresRepository) SaveOption(ctx context.Context, option *MenuOption) error {
	if option.ID == "" {
		option.ID = uuid.New().String()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO menu_options (
			id, menu_id, name, unit_price, default_qty,
			inventory_id, consumption_per_unit
		)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    unit_price = EXCLUDED.unit_price,
		    default_qty = EXCLUDED.default_qty,
		    inventory_id = EXCLUDED.inventory_id,
		    consumption_per_unit = EXCLUDED.consumption_per_unit
	`,
		option.ID,
		option.MenuID,
		option.Name,
		option.UnitPrice,
		option.DefaultQty,
		option.InventoryID,
		option.ConsumptionPerUnit,
	)
	return err
}

func (r *PostgresRepository) FindOption(ctx context.Context, id string) (*MenuOption, error) {
	var option MenuOption
	err := r.db.QueryRow(ctx, `
		SELECT id, menu_id, name, unit_price, default_qty,
		       COALESCE(inventory_id, ''), consumption_per_unit
		FROM menu_options
		WHERE id = $1
	`, id).Scan(
		&option.ID,
		&option.MenuID,
		&option.Name,
		&option.UnitPrice,
		&option.DefaultQty,
		&option.InventoryID,
		&option.ConsumptionPerUnit,
	)
	if err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *PostgresRepository) ListOptionsByMenu(ctx context.Context, menuID string) ([]*MenuOption, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, menu_id, name, unit_price, default_qty,
		       COALESCE(inventory_id, ''), consumption_per_unit
		FROM menu_options
		WHERE menu_id = $1
		ORDER BY name
	`, menuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []*MenuOption
	for rows.Next() {
		var option MenuOption
		if err := rows.Scan(
			&option.ID,
			&option.MenuID,
			&option.Name,
			&option.UnitPrice,
			&option.DefaultQty,
			&option.InventoryID,
			&option.ConsumptionPerUnit,
		); err != nil {
			return nil, err
		}
		options = append(options, &option)
	}
	return options, rows.Err()
}
