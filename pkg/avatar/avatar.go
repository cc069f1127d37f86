// Package avatar derives profile image URLs from display names.
// The avatar collaborator is a pure URL-generation service; it is never
// queried for state and no image is stored.
package avatar

import (
	"net/url"
	"strings"
)

const baseURL = "https://ui-avatars.com/api/"

// URL returns the deterministic avatar image URL for a display name.
// The same name always yields the same URL, so a profile rename is the only
// way an avatar changes.
func URL(name string) string {
	v := url.Values{}
	v.Set("name", strings.TrimSpace(name))
	v.Set("background", "random")
	v.Set("color", "fff")
	return baseURL + "?" + v.Encode()
}
