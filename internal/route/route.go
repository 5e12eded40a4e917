// Package route serializes view state to and from locations.
//
// A location is the sole external form of the router's state: "/" for
// the directory and "/?session=<id>" for a focused session. It is what
// the header displays, what the clipboard share link carries, and what
// deep links at startup are parsed from.
package route

import "net/url"

// Location is a parsed location.
type Location struct {
	SessionID string
}

// Directory is the location of the session directory view.
var Directory = Location{}

// Session returns the location for a focused session.
func Session(id string) Location {
	return Location{SessionID: id}
}

// IsSession reports whether the location targets a session view.
func (l Location) IsSession() bool {
	return l.SessionID != ""
}

// String serializes the location back to its path form.
func (l Location) String() string {
	if l.SessionID == "" {
		return "/"
	}
	return "/?session=" + url.QueryEscape(l.SessionID)
}

// Parse derives a Location from a raw location string. It accepts bare
// paths ("/", "/?session=x") and full URLs (the host part is ignored).
// Anything without a session parameter is the directory.
func Parse(raw string) Location {
	u, err := url.Parse(raw)
	if err != nil {
		return Directory
	}
	return Location{SessionID: u.Query().Get("session")}
}
