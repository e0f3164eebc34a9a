package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ParseProxies turns CIDRs or bare addresses into prefixes. Entries that
// parse as neither are returned in bad.
func ParseProxies(entries []string) (prefixes []netip.Prefix, bad []string) {
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if p, err := netip.ParsePrefix(e); err == nil {
			prefixes = append(prefixes, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(e); err == nil {
			prefixes = append(prefixes, netip.PrefixFrom(a, a.BitLen()))
			continue
		}
		bad = append(bad, e)
	}
	return prefixes, bad
}

// TrustedRealIP rewrites RemoteAddr to the client address from X-Real-IP
// or the first X-Forwarded-For hop, but only for requests arriving from a
// trusted proxy. Everyone else keeps their connection address, so clients
// cannot dodge the rate limiter or forge audit IPs with a header.
func TrustedRealIP(trusted []string) func(http.Handler) http.Handler {
	proxies, bad := ParseProxies(trusted)
	for _, e := range bad {
		slog.Warn("realip: ignoring invalid trusted proxy", "entry", e)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if fromProxy(r.RemoteAddr, proxies) {
				if ip, ok := forwardedFor(r.Header); ok {
					r.RemoteAddr = ip.String()
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func fromProxy(remote string, proxies []netip.Prefix) bool {
	if len(proxies) == 0 {
		return false
	}
	host := remote
	if h, _, err := net.SplitHostPort(remote); err == nil {
		host = h
	}
	a, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	a = a.Unmap()
	for _, p := range proxies {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// forwardedFor prefers X-Real-IP. An invalid header value is ignored
// rather than falling through to the next header.
func forwardedFor(h http.Header) (netip.Addr, bool) {
	raw := h.Get("X-Real-IP")
	if raw == "" {
		raw, _, _ = strings.Cut(h.Get("X-Forwarded-For"), ",")
	}
	a, err := netip.ParseAddr(strings.TrimSpace(raw))
	if err != nil {
		return netip.Addr{}, false
	}
	return a.Unmap(), true
}
