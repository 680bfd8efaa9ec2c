// Package greeting builds the time-of-day salutation shown on /start.
package greeting

import (
	"fmt"
	"strings"
	"time"
)

// istOffset approximates Indian Standard Time without a timezone database.
const istOffset = 5*time.Hour + 30*time.Minute

// Band returns the salutation for the given UTC instant adjusted to IST.
func Band(now time.Time) string {
	hour := now.UTC().Add(istOffset).Hour()
	switch {
	case hour >= 5 && hour < 12:
		return "🌅 Good Morning"
	case hour >= 12 && hour < 17:
		return "🌞 Good Afternoon"
	case hour >= 17 && hour < 21:
		return "🌇 Good Evening"
	default:
		return "🌙 Good Night"
	}
}

// For formats the full greeting line for a user. Usernames are prefixed with
// "@", bare display names are used as-is.
func For(now time.Time, username, firstName string) string {
	name := strings.TrimSpace(username)
	if name != "" {
		name = "@" + name
	} else {
		name = strings.TrimSpace(firstName)
	}
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("%s, %s!", Band(now), name)
}
