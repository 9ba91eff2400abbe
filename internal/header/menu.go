package header

// Route paths used by the menu.
const (
	RootRoute = "/"
	BlogRoute = "/blog/"
)

// MenuItem is a single navigation entry.
type MenuItem struct {
	ID    string `json:"id"`
	Route string `json:"route"`
}

// Anchor reports whether the item scrolls within the single page rather than
// loading a separate one.
func (m MenuItem) Anchor() bool { return m.Route == RootRoute }

// MenuItems is the fixed navigation list in render order.
var MenuItems = []MenuItem{
	{ID: "home", Route: RootRoute},
	{ID: "about", Route: RootRoute},
	{ID: "resume", Route: RootRoute},
	{ID: "projects", Route: RootRoute},
	{ID: "talks", Route: RootRoute},
	{ID: "philanthropy", Route: RootRoute},
	{ID: "contact", Route: RootRoute},
	{ID: "blog", Route: BlogRoute},
}

// Lookup returns the menu item with the given id.
func Lookup(id string) (MenuItem, bool) {
	for _, item := range MenuItems {
		if item.ID == id {
			return item, true
		}
	}
	return MenuItem{}, false
}
