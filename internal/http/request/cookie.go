package request

import "net/http"

// CookieValue returns the value of the named cookie, or "" if it's absent.
func CookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
