// Package launcher holds the table of launchpad shortcuts and starts them.
package launcher

// Kind says how a shortcut's targets are opened
type Kind string

const (
	KindApp     Kind = "app"     // process command line
	KindWebsite Kind = "website" // http(s) URL for the default browser
	KindShell   Kind = "shell"   // shell URI, or a command when it contains spaces
)

// Display groups, in the order the panel draws them
const (
	GroupMain   = "main"
	GroupExtra  = "extra"
	GroupBottom = "bottom"
)

// Shortcut is one launchpad button. Targets are tried in order until one starts.
type Shortcut struct {
	ID      string
	Label   string // button text
	Name    string // what is being opened, for error messages
	Kind    Kind
	Targets []string
	Group   string
}

// DisplayName returns Name, falling back to Label
func (s Shortcut) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Label
}

// Catalog is an ordered, read-only list of shortcuts
type Catalog struct {
	entries []Shortcut
	byID    map[string]int
}

// NewCatalog indexes entries by id. Later duplicates are ignored.
func NewCatalog(entries []Shortcut) *Catalog {
	c := &Catalog{byID: make(map[string]int, len(entries))}
	for _, e := range entries {
		if _, dup := c.byID[e.ID]; dup {
			continue
		}
		e.Targets = append([]string(nil), e.Targets...)
		c.byID[e.ID] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c
}

// DefaultCatalog returns the built-in shortcuts
func DefaultCatalog() *Catalog {
	startMenu := []string{"explorer shell:AppsFolder"}

	return NewCatalog([]Shortcut{
		{ID: "notepad", Label: "Open Notepad", Name: "Notepad", Kind: KindApp, Targets: []string{"notepad.exe"}, Group: GroupMain},
		{ID: "calculator", Label: "Open Calculator", Name: "Calculator", Kind: KindApp, Targets: []string{"calc.exe"}, Group: GroupMain},
		{ID: "bing", Label: "Open Bing", Name: "Bing", Kind: KindWebsite, Targets: []string{"https://www.bing.com"}, Group: GroupMain},
		{ID: "youtube", Label: "Open YouTube", Name: "YouTube", Kind: KindWebsite, Targets: []string{"https://www.youtube.com"}, Group: GroupMain},
		{ID: "startmenu", Label: "Open Start Menu", Name: "Start Menu", Kind: KindShell, Targets: startMenu, Group: GroupMain},
		{ID: "explorer", Label: "Open Windows Explorer", Name: "Windows Explorer", Kind: KindApp, Targets: []string{"explorer"}, Group: GroupMain},

		{ID: "edge", Label: "Open Edge", Name: "Microsoft Edge", Kind: KindApp, Targets: []string{
			"msedge",
			`"C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe"`,
		}, Group: GroupExtra},
		{ID: "vscode", Label: "Open Visual Studio", Name: "Visual Studio Code", Kind: KindApp, Targets: []string{
			"code",
			`"C:\Program Files\Microsoft VS Code\Code.exe"`,
		}, Group: GroupExtra},
		{ID: "defender", Label: "Open Defender", Name: "Windows Security", Kind: KindShell, Targets: []string{
			"windowsdefender:",
			`cmd /c start "" windowsdefender:`,
		}, Group: GroupExtra},

		{ID: "moreapps", Label: "See More Apps", Name: "Start Menu", Kind: KindShell, Targets: startMenu, Group: GroupBottom},
	})
}

// All returns every shortcut in display order
func (c *Catalog) All() []Shortcut {
	out := make([]Shortcut, len(c.entries))
	copy(out, c.entries)
	return out
}

// Lookup finds a shortcut by id
func (c *Catalog) Lookup(id string) (Shortcut, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Shortcut{}, false
	}
	return c.entries[i], true
}

// Group returns the shortcuts of one display group in order
func (c *Catalog) Group(name string) []Shortcut {
	var out []Shortcut
	for _, e := range c.entries {
		if e.Group == name {
			out = append(out, e)
		}
	}
	return out
}

// Groups lists group names in the order they first appear
func (c *Catalog) Groups() []string {
	var names []string
	seen := make(map[string]bool)
	for _, e := range c.entries {
		if !seen[e.Group] {
			seen[e.Group] = true
			names = append(names, e.Group)
		}
	}
	return names
}
