package catalog

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu      sync.RWMutex
	menus   map[string]*Menu
	styles  map[string]*ServingStyle
	options map[string]*MenuOption
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		menus:   make(map[string]*Menu),
		styles:  make(map[string]*ServingStyle),
		options: make(map[string]*MenuOption),
	}
}

func (r *InMemoryRepository) SaveMenu(ctx context.Context, menu *Menu) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if menu.ID == "" {
		menu.ID = uuid.New().String()
		menu.CreatedAt = time.Now()
	}
	copied := *menu
	r.menus[menu.ID] = &copied
	return nil
}

func (r *InMemoryRepository) FindMenu(ctx context.Context, id string) (*Menu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	menu, ok := r.menus[id]
	if !ok {
		return nil, errors.New("menu not found")
	}
	copied := *menu
	return &copied, nil
}

func (r *InMemoryRepository) ListMenus(ctx context.Context) ([]*Menu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	menus := make([]*Menu, 0, len(r.menus))
	for _, menu := range r.menus {
		copied := *menu
		menus = append(menus, &copied)
	}
	sort.Slice(menus, func(i, j int) bool { return menus[i].Name < menus[j].Name })
	return menus, nil
}

func (r *InMemoryRepository) SetMenuImage(ctx context.Context, id, imageURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	menu, ok := r.menus[id]
	if !ok {
		return errors.New("menu not found")
	}
	menu.ImageURL = imageURL
	return nil
}

func (r *InMemoryRepository) SaveStyle(ctx context.Context, style *ServingStyle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if style.ID == "" {
		style.ID = uuid.New().String()
	}
	copied := *style
	r.styles[style.ID] = &copied
	return nil
}

func (r *InMemoryRepository) FindStyle(ctx context.Context, id string) (*ServingStyle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	style, ok := r.styles[id]
	if !ok {
		return nil, errors.New("style not found")
	}
	copied := *style
	return &copied, nil
}

func (r *InMemoryRepository) ListStyles(ctx context.Context, activeOnly bool) ([]*ServingStyle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	styles := make([]*ServingStyle, 0, len(r.styles))
	for _, style := range r.styles {
		if activeOnly && !style.Active {
			continue
		}
		copied := *style
		styles = append(styles, &copied)
	}
	sort.Slice(styles, func(i, j int) bool { return styles[i].ExtraPrice < styles[j].ExtraPrice })
	return styles, nil
}

func (r *InMemoryRepository) SaveOption(ctx context.Context, option *MenuOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if option.ID == "" {
		option.ID = uuid.New().String()
	}
	copied := *option
	r.options[option.ID] = &copied
	return nil
}

func (r *InMemoryRepository) FindOption(ctx context.Context, id string) (*MenuOption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	option, ok := r.options[id]
	if !ok {
		return nil, errors.New("option not found")
	}
	copied := *option
	return &copied, nil
}

func (r *InMemoryRepository) ListOptionsByMenu(ctx context.Context, menuID string) ([]*MenuOption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	options := make([]*MenuOption, 0)
	for _, option := range r.options {
		if option.MenuID == menuID {
			copied := *option
			options = append(options, &copied)
		}
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Name < options[j].Name })
	return options, nil
}
