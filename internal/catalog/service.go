package catalog

import (
	"context"
	"errors"
	"mime/multipart"
)

var (
	ErrMenuNotFound   = errors.New("menu not found")
	ErrStyleNotFound  = errors.New("serving style not found")
	ErrOptionNotFound = errors.New("menu option not found")
	ErrStyleInactive  = errors.New("serving style is no longer offered")
)

type Storage interface {
	Upload(ctx context.Context, key string, file multipart.File) (string, error)
}

type Service struct {
	repo    Repository
	storage Storage
}

func NewService(repo Repository, storage Storage) *Service {
	return &Service{repo: repo, storage: storage}
}

// --------------------------------------------------
// Lookups (shared by cart, pricing and order flows)
// --------------------------------------------------
func (s *Service) GetMenu(ctx context.Context, id string) (*Menu, error) {
	menu, err := s.repo.FindMenu(ctx, id)
	if err != nil {
		return nil, ErrMenuNotFound
	}
	return menu, nil
}

func (s *Service) GetStyle(ctx context.Context, id string) (*ServingStyle, error) {
	style, err := s.repo.FindStyle(ctx, id)
	if err != nil {
		return nil, ErrStyleNotFound
	}
	return style, nil
}

// GetActiveStyle is the lookup used for NEW selections: a
// deactivated style is rejected even though it still resolves
// for historical orders.
func (s *Service) GetActiveStyle(ctx context.Context, id string) (*ServingStyle, error) {
	style, err := s.GetStyle(ctx, id)
	if err != nil {
		return nil, err
	}
	if !style.Active {
		return nil, ErrStyleInactive
	}
	return style, nil
}

// ZeroExtraStyle returns the cheapest active style with no price
// delta. Used when a cart item drops its serving style.
func (s *Service) ZeroExtraStyle(ctx context.Context) (*ServingStyle, error) {
	styles, err := s.repo.ListStyles(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, style := range styles {
		if style.ExtraPrice == 0 {
			return style, nil
		}
	}
	return nil, ErrStyleNotFound
}

func (s *Service) GetOption(ctx context.Context, id string) (*MenuOption, error) {
	option, err := s.repo.FindOption(ctx, id)
	if err != nil {
		return nil, ErrOptionNotFound
	}
	return option, nil
}

func (s *Service) ListMenus(ctx context.Context) ([]*Menu, error) {
	return s.repo.ListMenus(ctx)
}

func (s *Service) ListStyles(ctx context.Context) ([]*ServingStyle, error) {
	return s.repo.ListStyles(ctx, true)
}

func (s *Service) ListOptions(ctx context.Context, menuID string) ([]*MenuOption, error) {
	if _, err := s.GetMenu(ctx, menuID); err != nil {
		return nil, err
	}
	return s.repo.ListOptionsByMenu(ctx, menuID)
}

// --------------------------------------------------
// Admin writes (catalog is otherwise read-only)
// --------------------------------------------------
func (s *Service) CreateMenu(ctx context.Context, name string, price int) (*Menu, error) {
	if name == "" {
		return nil, errors.New("menu name is required")
	}
	if price < 0 {
		return nil, errors.New("menu price must not be negative")
	}

	menu := &Menu{Name: name, Price: price}
	if err := s.repo.SaveMenu(ctx, menu); err != nil {
		return nil, err
	}
	return menu, nil
}

func (s *Service) CreateStyle(ctx context.Context, name string, extraPrice int) (*ServingStyle, error) {
	if name == "" {
		return nil, errors.New("style name is required")
	}
	if extraPrice < 0 {
		return nil, errors.New("style extra price must not be negative")
	}

	style := &ServingStyle{Name: name, ExtraPrice: extraPrice, Active: true}
	if err := s.repo.SaveStyle(ctx, style); err != nil {
		return nil, err
	}
	return style, nil
}

func (s *Service) CreateOption(
	ctx context.Context,
	menuID, name string,
	unitPrice, defaultQty int,
	inventoryID string,
	consumptionPerUnit int,
) (*MenuOption, error) {

	if _, err := s.GetMenu(ctx, menuID); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errors.New("option name is required")
	}
	if unitPrice < 0 || defaultQty < 0 || consumptionPerUnit < 0 {
		return nil, errors.New("option price, default quantity and consumption must not be negative")
	}

	option := &MenuOption{
		MenuID:             menuID,
		Name:               name,
		UnitPrice:          unitPrice,
		DefaultQty:         defaultQty,
		InventoryID:        inventoryID,
		ConsumptionPerUnit: consumptionPerUnit,
	}
	if err := s.repo.SaveOption(ctx, option); err != nil {
		return nil, err
	}
	return option, nil
}

// --------------------------------------------------
// Menu image upload (ADMIN)
// --------------------------------------------------
func (s *Service) UploadMenuImage(
	ctx context.Context,
	menuID string,
	file multipart.File,
	key string,
) (string, error) {

	if _, err := s.GetMenu(ctx, menuID); err != nil {
		return "", err
	}

	url, err := s.storage.Upload(ctx, key, file)
	if err != nil {
		return "", err
	}

	if err := s.repo.SetMenuImage(ctx, menuID, url); err != nil {
		return "", err
	}
	return url, nil
}
