package client

import (
	"fmt"
	"time"
)

// FormatRelative renders t relative to now for message display:
// "just now", "5m ago", "3h ago", then a short absolute date.
func FormatRelative(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("Jan 2, 3:04 PM")
	}
}
