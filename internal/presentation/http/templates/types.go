package templates

// SiteTitle is shown in the header and page titles.
const SiteTitle = "SDA Admin"

// ClearSuffix names the checkbox that clears an optional upload field.
const ClearSuffix = "-clear"

// Layout carries the values shared by every authenticated page.
type Layout struct {
	Title    string
	Username string
	Nav      []NavItem
	// Languages are the display language switches for pages that resolve
	// localized text.
	Languages []LanguageLink
}

// NavItem is one entry of the resource navigation.
type NavItem struct {
	Label  string
	URL    string
	Active bool
}

// LanguageLink switches the display language of the current page.
type LanguageLink struct {
	Code   string
	URL    string
	Active bool
}

// DashboardData lists the administrable resources with their record counts.
type DashboardData struct {
	Layout
	Cards []DashboardCard
}

// DashboardCard links one resource from the dashboard.
type DashboardCard struct {
	Label    string
	URL      string
	Count    int64
	Children []string
}

// Cell is one rendered list value. Exactly one of ImageURL, LinkURL or Text
// is used; Placeholder is shown when the value is empty.
type Cell struct {
	Text        string
	ImageURL    string
	LinkURL     string
	Placeholder string
}

// Row is one record in a list table.
type Row struct {
	EditURL string
	Title   string
	Cells   []Cell
}

// Table is a list of records with their columns.
type Table struct {
	Columns []string
	Rows    []Row
	Empty   string
}

// ListData renders a resource's change list.
type ListData struct {
	Layout
	Heading  string
	NewURL   string
	Search   string
	Action   string
	Table    Table
	Total    int64
	Page     int
	Pages    int
	PrevURL  string
	NextURL  string
	Flash    string
	Searched bool
}

// Option is one choice of a select input.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Variant is one language input of a localized field.
type Variant struct {
	Code  string
	Name  string
	Value string
}

// FormField is one input of a generated form.
type FormField struct {
	Name      string
	Label     string
	Kind      string
	Required  bool
	Multiline bool
	Value     string
	Checked   bool
	Variants  []Variant
	Options   []Option
	// CurrentURL is the stored URL of an upload field.
	CurrentURL string
	IsImage    bool
	Clearable  bool
	Error      string
	Hidden     bool
}

// ChildTable lists the inline children of the edited record.
type ChildTable struct {
	Heading string
	NewURL  string
	Table   Table
}

// FormData renders a create or edit form.
type FormData struct {
	Layout
	Heading   string
	Action    string
	CancelURL string
	DeleteURL string
	Flash     string
	Error     string
	Fields    []FormField
	Children  []ChildTable
	Editing   bool
}

// DeleteData renders the delete confirmation page.
type DeleteData struct {
	Layout
	Heading   string
	Name      string
	Action    string
	CancelURL string
	Related   []string
}

// LoginData renders the login form.
type LoginData struct {
	Title    string
	Next     string
	Username string
	Error    string
}

// ErrorPageData holds information for rendering an error view.
type ErrorPageData struct {
	Title       string
	StatusLabel string
	Message     string
	BackURL     string
}
