package catalog

import "context"

// Repository defines the data-access contract.
// Service depends ONLY on this interface.
type Repository interface {
	SaveMenu(ctx context.Context, menu *Menu) error
	FindMenu(ctx context.Context, id string) (*Menu, error)
	ListMenus(ctx context.Context) ([]*Menu, error)
	SetMenuImage(ctx context.Context, id, imageURL string) error

	SaveStyle(ctx context.Context, style *ServingStyle) error
	FindStyle(ctx context.Context, id string) (*ServingStyle, error)
	ListStyles(ctx context.Context, activeOnly bool) ([]*ServingStyle, error)

	SaveOption(ctx context.Context, option *MenuOption) error
	FindOption(ctx context.Context, id string) (*MenuOption, error)
	ListOptionsByMenu(ctx context.Context, menuID string) ([]*MenuOption, error)
}
