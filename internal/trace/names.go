package trace

import (
	"fmt"
	"strings"
)

// enumName returns names[v] or "unknown".
func enumName[T ~uint8](names []string, v T) string {
	if int(v) < len(names) && names[v] != "" {
		return names[v]
	}
	return "unknown"
}

// parseEnum looks s up case-insensitively in names. what names the flag in
// the error, which lists the accepted values.
func parseEnum[T ~uint8](what string, names []string, s string) (T, error) {
	s = strings.ToLower(s)
	var valid []string
	for i, name := range names {
		if name == "" {
			continue
		}
		if name == s {
			return T(i), nil
		}
		valid = append(valid, name)
	}
	return 0, fmt.Errorf("invalid trace %s %q (expected %s)", what, s, strings.Join(valid, "|"))
}
