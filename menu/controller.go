// Package menu implements the menu browser: it loads categories and dishes
// from a Source and drives a Host and a Display with the results.
package menu

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"

	"restaurant-menu/lang"
	"restaurant-menu/models"
)

var (
	ErrUnknownCategory = errors.New("menu: unknown category")
	ErrDishNotFound    = errors.New("menu: dish not found")
)

// Source is the read-only data service.
type Source interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Dishes(ctx context.Context, categoryID models.ID) ([]models.Dish, error)
}

type State int

const (
	StateUninitialized State = iota
	StateCategoriesLoading
	StateCategoriesEmpty
	StateCategoriesError
	StateCategoriesReady
	StateDishesLoading
	StateDishesReady
	StateDishesEmpty
	StateDishesError
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateCategoriesLoading:
		return "categories_loading"
	case StateCategoriesEmpty:
		return "categories_empty"
	case StateCategoriesError:
		return "categories_error"
	case StateCategoriesReady:
		return "categories_ready"
	case StateDishesLoading:
		return "dishes_loading"
	case StateDishesReady:
		return "dishes_ready"
	case StateDishesEmpty:
		return "dishes_empty"
	case StateDishesError:
		return "dishes_error"
	}
	return "unknown"
}

type Options struct {
	Lang     string
	Currency string
	// InitialCategory is activated after the first load when it is present
	// in the list; otherwise the first category is.
	InitialCategory models.ID
	Logger          *zap.Logger
}

// Controller owns the session state: the category list, the current dish
// list and the active category. Network calls run without the lock held.
type Controller struct {
	src     Source
	host    Host
	display Display
	view    View
	initial models.ID
	log     *zap.Logger

	mu         sync.Mutex
	state      State
	categories []models.Category
	dishes     []models.Dish
	active     models.ID
	hasActive  bool
}

func NewController(src Source, host Host, display Display, opts Options) *Controller {
	if opts.Lang == "" {
		opts.Lang = lang.Ru
	}
	if opts.Currency == "" {
		opts.Currency = "₽"
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.L()
	}
	return &Controller{
		src:     src,
		host:    host,
		display: display,
		view:    View{Lang: opts.Lang, Currency: opts.Currency},
		initial: opts.InitialCategory,
		log:     logger.Named("menu"),
	}
}

func (c *Controller) t(key string) string {
	return lang.T(c.view.Lang, key)
}

// Initialize prepares the host frame and loads the category list.
func (c *Controller) Initialize(ctx context.Context) {
	c.host.Expand()
	c.host.EnableClosingConfirmation()
	c.LoadCategories(ctx)
}

// LoadCategories fetches the category list, renders the tab strip once and
// loads the dishes of the initial category.
func (c *Controller) LoadCategories(ctx context.Context) {
	c.mu.Lock()
	c.state = StateCategoriesLoading
	c.display.SetStatus(c.t("loading_categories"), true)
	c.mu.Unlock()

	cats, err := c.src.Categories(ctx)

	c.mu.Lock()
	if err != nil {
		c.log.Error("load categories", zap.Error(err))
		c.state = StateCategoriesError
		c.categories = nil
		c.display.SetStatus("", false)
		c.display.SetGrid(Grid{Kind: GridError, Message: c.t("load_error")})
		c.display.SetGridVisible(true)
		c.mu.Unlock()
		return
	}
	if len(cats) == 0 {
		c.state = StateCategoriesEmpty
		c.categories = nil
		c.display.SetStatus(c.t("no_categories"), true)
		c.mu.Unlock()
		return
	}

	sorted := slices.Clone(cats)
	slices.SortStableFunc(sorted, func(a, b models.Category) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})
	c.categories = sorted

	first := sorted[0].ID
	if c.initial != "" && c.hasCategory(c.initial) {
		first = c.initial
	}

	tabs := make([]Tab, 0, len(sorted))
	for _, cat := range sorted {
		tabs = append(tabs, Tab{ID: cat.ID, Name: cat.Name})
	}
	c.display.AppendTabs(tabs)
	c.display.ActivateTab(first)
	c.state = StateCategoriesReady
	c.mu.Unlock()

	c.LoadDishes(ctx, first)
}

// LoadDishes replaces the dish grid with the dishes of categoryID. A
// response that arrives after another category became active is dropped.
func (c *Controller) LoadDishes(ctx context.Context, categoryID models.ID) {
	c.mu.Lock()
	c.active = categoryID
	c.hasActive = true
	c.state = StateDishesLoading
	c.display.SetStatus(c.t("loading_dishes"), true)
	c.display.SetGridVisible(false)
	c.mu.Unlock()

	dishes, err := c.src.Dishes(ctx, categoryID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != categoryID {
		c.log.Debug("dropping stale dishes response",
			zap.Stringer("category_id", categoryID),
			zap.Stringer("active_id", c.active))
		return
	}

	switch {
	case err != nil:
		c.log.Error("load dishes", zap.Stringer("category_id", categoryID), zap.Error(err))
		c.dishes = nil
		c.state = StateDishesError
		c.display.SetGrid(Grid{Kind: GridError, Message: c.t("load_error")})
	case len(dishes) == 0:
		c.dishes = nil
		c.state = StateDishesEmpty
		c.display.SetGrid(Grid{Kind: GridEmpty, Message: c.t("no_dishes")})
	default:
		sorted := slices.Clone(dishes)
		slices.SortStableFunc(sorted, func(a, b models.Dish) int {
			return cmp.Compare(a.SortOrder, b.SortOrder)
		})
		c.dishes = sorted
		c.state = StateDishesReady
		c.display.SetGrid(c.renderDishes())
	}

	c.display.SetStatus("", false)
	c.display.SetGridVisible(true)
}

func (c *Controller) renderDishes() Grid {
	cards := make([]Card, 0, len(c.dishes))
	for _, d := range c.dishes {
		cards = append(cards, c.view.Card(d))
	}
	return Grid{Kind: GridCards, Cards: cards}
}

// SelectCategory is a tab click: it makes the tab the only active one and
// loads its dishes.
func (c *Controller) SelectCategory(ctx context.Context, id models.ID) error {
	c.mu.Lock()
	if !c.hasCategory(id) {
		c.mu.Unlock()
		return ErrUnknownCategory
	}
	c.display.ActivateTab(id)
	c.mu.Unlock()

	c.LoadDishes(ctx, id)
	return nil
}

// ShowDish opens the detail overlay for a dish of the current list.
func (c *Controller) ShowDish(id models.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.dishes {
		if d.ID == id {
			c.display.ShowDetail(c.view.Detail(d))
			return nil
		}
	}
	return ErrDishNotFound
}

// CloseDetail hides the detail overlay.
func (c *Controller) CloseDetail() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.display.HideDetail()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ActiveCategory reports the active category; ok is false before the first
// dish load starts.
func (c *Controller) ActiveCategory() (id models.ID, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active, c.hasActive
}

func (c *Controller) Categories() []models.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.categories)
}

func (c *Controller) Dishes() []models.Dish {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.dishes)
}

func (c *Controller) hasCategory(id models.ID) bool {
	return slices.ContainsFunc(c.categories, func(cat models.Category) bool {
		return cat.ID == id
	})
}
