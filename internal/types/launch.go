package types

import "time"

// ShortcutView is a launchpad button as the frontend renders it
type ShortcutView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
	Title string `json:"title,omitempty"` // page title for website shortcuts, when known
}

// ClockTick is emitted every second for the date/time display
type ClockTick struct {
	Date     string `json:"date"`     // e.g. "Monday, 02 January 2006"
	Time     string `json:"time"`     // 12-hour clock, e.g. "03:04:05 PM"
	Greeting string `json:"greeting"` // salutation for the current hour, e.g. "Good morning "
}

// PanelState is everything the frontend needs to draw the panel
type PanelState struct {
	Greeting   string                    `json:"greeting"`
	Username   string                    `json:"username"`
	Background string                    `json:"background"`
	DevMode    bool                      `json:"devMode"`
	Groups     map[string][]ShortcutView `json:"groups"`
	Clock      ClockTick                 `json:"clock"`
}

// LaunchOutcome reports the result of pressing a shortcut button
type LaunchOutcome struct {
	ShortcutID string `json:"shortcutId"`
	Target     string `json:"target"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
	Attempts   int    `json:"attempts"`
}

// LaunchRecord is one row of launch history
type LaunchRecord struct {
	ID         int64     `json:"id"`
	ShortcutID string    `json:"shortcutId"`
	Target     string    `json:"target"`
	OK         bool      `json:"ok"`
	Error      string    `json:"error,omitempty"`
	LaunchedAt time.Time `json:"launchedAt"`
}

// LaunchCount aggregates successful launches of one shortcut
type LaunchCount struct {
	ShortcutID   string    `json:"shortcutId"`
	Count        int64     `json:"count"`
	LastLaunched time.Time `json:"lastLaunched"`
}

// LinkPreview holds the page title scraped for a website shortcut
type LinkPreview struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	FetchedAt time.Time `json:"fetchedAt"`
}
