package access

import "strings"

// normalizePath strips query/fragment and trailing slashes so that
// "/patients/" and "/patients?tab=active" resolve like "/patients".
func normalizePath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimSpace(p)
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}
	if p == "" || p[0] != '/' {
		p = "/" + p
	}
	return p
}

func splitPath(p string) []string {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// isTemplate reports whether any segment is a ":name" placeholder.
func isTemplate(segments []string) bool {
	for _, s := range segments {
		if strings.HasPrefix(s, ":") {
			return true
		}
	}
	return false
}

// matchSegments matches a concrete path against a template. A placeholder
// matches exactly one non-empty segment.
func matchSegments(template, path []string) bool {
	if len(template) != len(path) {
		return false
	}
	for i, seg := range template {
		if strings.HasPrefix(seg, ":") {
			if path[i] == "" {
				return false
			}
			continue
		}
		if seg != path[i] {
			return false
		}
	}
	return true
}
