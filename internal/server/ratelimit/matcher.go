package ratelimit

import "strings"

// MatchEndpoint returns the rule for a request, or nil when none applies.
// Exact paths win over prefixes; among prefixes the longest wins.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	for i := range configs {
		c := &configs[i]
		if c.Path == path && methodMatches(c.Method, method) {
			return c
		}
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if !strings.HasSuffix(c.Path, "/") || !methodMatches(c.Method, method) {
			continue
		}
		if strings.HasPrefix(path, c.Path) && (best == nil || len(c.Path) > len(best.Path)) {
			best = c
		}
	}
	return best
}

func methodMatches(rule, method string) bool {
	return rule == "" || strings.EqualFold(rule, method)
}
