package scrub

import (
	"net/url"
	"regexp"
	"strings"
)

// URLMask replaces sensitive query parameter values.
const URLMask = "***"

// sensitiveQueryParam matches query parameter names ending in a credential
// word: client_secret, id_token, accessToken, user_password, oauth, ...
var sensitiveQueryParam = regexp.MustCompile(
	`(?i)(api[_-]?key|token|password|secret|authorization|auth)$`,
)

// MaskURL masks query parameter values under the engine's config.
//
// A parameter is masked when its name ends in a credential word (api_key,
// apiKey, token, access-token, client_secret, ...) or matches a registry
// rule. Its value becomes URLMask, even when empty. Scheme, host, path, fragment and parameter order are
// preserved. Disabled configs return rawURL unchanged.
func (e *Engine) MaskURL(rawURL string) string {
	if !e.cfg.enabled {
		return rawURL
	}
	return maskURL(e.cfg.Registry(), rawURL)
}

func maskURL(reg *Registry, rawURL string) string {
	q := strings.IndexByte(rawURL, '?')
	if q < 0 {
		return rawURL
	}

	base := rawURL[:q]
	query := rawURL[q+1:]
	fragment := ""
	if h := strings.IndexByte(query, '#'); h >= 0 {
		fragment = query[h:]
		query = query[:h]
	}

	pairs := strings.Split(query, "&")
	changed := false
	for i, pair := range pairs {
		key, _, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name := key
		if unescaped, err := url.QueryUnescape(key); err == nil {
			name = unescaped
		}
		if sensitiveQueryParam.MatchString(name) || reg.IsSensitive(name) {
			pairs[i] = key + "=" + URLMask
			changed = true
		}
	}
	if !changed {
		return rawURL
	}

	return base + "?" + strings.Join(pairs, "&") + fragment
}
