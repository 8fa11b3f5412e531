// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package request // import "website.app/v2/internal/http/request"

import (
	"net"
	"net/http"
	"net/netip"
	"slices"
	"strings"
)

// FindClientIP returns the real client IP address. X-Forwarded-For is walked
// from right to left skipping trusted proxies, then X-Real-IP is checked, and
// finally the TCP peer address is used.
func FindClientIP(r *http.Request, trustedProxy func(ip string) bool) string {
	if ip := forwardedFor(r, trustedProxy); ip != "" {
		return ip
	}

	if ip, ok := parseIP(r.Header.Get("X-Real-IP")); ok {
		return ip
	}
	return FindRemoteIP(r)
}

func forwardedFor(r *http.Request, trustedProxy func(ip string) bool) string {
	for _, header := range slices.Backward(r.Header.Values("X-Forwarded-For")) {
		hops := strings.Split(header, ",")
		for _, hop := range slices.Backward(hops) {
			hop = strings.TrimSpace(hop)
			if trustedProxy(hop) {
				continue
			}
			ip, _ := parseIP(hop)
			return ip
		}
	}
	return ""
}

func parseIP(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return "", false
	}
	return addr.WithZone("").String(), true
}

// FindRemoteIP returns the IP address of the TCP peer, ignoring headers.
func FindRemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	host, _, _ = strings.Cut(host, "%")
	return host
}
