package menu

import "restaurant-menu/models"

// Host is the messaging-app frame the mini-app runs in. Calls are
// fire-and-forget.
type Host interface {
	Expand()
	EnableClosingConfirmation()
}

// Display is the rendering surface: a status line, a tab strip, a dish grid
// and a detail overlay.
type Display interface {
	SetStatus(text string, visible bool)
	SetGridVisible(visible bool)
	AppendTabs(tabs []Tab)
	ActivateTab(id models.ID)
	SetGrid(g Grid)
	ShowDetail(d Detail)
	HideDetail()
}

// Page records everything the controller asked the host and the display to
// do. It is the surface the web templates render from. A Page is not safe
// for concurrent use on its own; the Controller serializes its calls.
type Page struct {
	Expanded            bool
	ClosingConfirmation bool

	Status        string
	StatusVisible bool
	GridVisible   bool

	Tabs   []Tab
	Grid   Grid
	Detail *Detail
}

func NewPage() *Page {
	return &Page{GridVisible: true}
}

func (p *Page) Expand()                    { p.Expanded = true }
func (p *Page) EnableClosingConfirmation() { p.ClosingConfirmation = true }

func (p *Page) SetStatus(text string, visible bool) {
	p.Status = text
	p.StatusVisible = visible
}

func (p *Page) SetGridVisible(visible bool) { p.GridVisible = visible }

// AppendTabs adds tabs after the existing ones. Calling it twice with the
// same list duplicates the strip.
func (p *Page) AppendTabs(tabs []Tab) {
	p.Tabs = append(p.Tabs, tabs...)
}

func (p *Page) ActivateTab(id models.ID) {
	for i := range p.Tabs {
		p.Tabs[i].Active = p.Tabs[i].ID == id
	}
}

func (p *Page) SetGrid(g Grid) { p.Grid = g }

func (p *Page) ShowDetail(d Detail) { p.Detail = &d }

func (p *Page) HideDetail() { p.Detail = nil }

// ActiveTab returns the tab currently marked active.
func (p *Page) ActiveTab() (Tab, bool) {
	for _, t := range p.Tabs {
		if t.Active {
			return t, true
		}
	}
	return Tab{}, false
}
