package identity

import (
	"net/http"
	"net/url"
	"time"
)

// CookieName is the cookie mirroring the device id for server correlation.
const CookieName = "hotel_device_id"

// cookieTTL keeps the mirror alive for a year.
const cookieTTL = 365 * 24 * time.Hour

// CookieMirror plants the device id cookie into the HTTP client's jar so
// every request to the service origin carries it.
type CookieMirror struct {
	jar  http.CookieJar
	base *url.URL
	now  func() time.Time
}

// NewCookieMirror constructs a mirror for the given jar and service origin.
func NewCookieMirror(jar http.CookieJar, base *url.URL, now func() time.Time) *CookieMirror {
	if now == nil {
		now = time.Now
	}
	return &CookieMirror{jar: jar, base: base, now: now}
}

// Assert (re)writes the device id cookie. Safe to call repeatedly; the jar
// replaces the previous value.
func (m *CookieMirror) Assert(deviceID string) {
	if m == nil || m.jar == nil || m.base == nil || deviceID == "" {
		return
	}
	m.jar.SetCookies(m.base, []*http.Cookie{{
		Name:     CookieName,
		Value:    deviceID,
		Path:     "/",
		Expires:  m.now().Add(cookieTTL),
		SameSite: http.SameSiteLaxMode,
	}})
}
