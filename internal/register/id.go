package register

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	escapedPercent = "%0025%"
	escapedSlash   = "%002F%"
)

// Compose builds the id of target archived at ts. The millisecond timestamp
// prefix makes ids sortable; the escaped path makes them reversible.
func Compose(ts time.Time, target string) string {
	return composeMillis(ts.UnixMilli(), target)
}

func composeMillis(ms int64, target string) string {
	escaped := strings.ReplaceAll(target, "%", escapedPercent)
	escaped = strings.ReplaceAll(escaped, "/", escapedSlash)
	return fmt.Sprintf("%d%%%s", ms, escaped)
}

// Decompose reverses Compose. Archive files are named by their id.
func Decompose(id string) (time.Time, string, error) {
	ms, target, err := decomposeMillis(id)
	if err != nil {
		return time.Time{}, "", err
	}
	return time.UnixMilli(ms), target, nil
}

func decomposeMillis(id string) (int64, string, error) {
	stamp, escaped, ok := strings.Cut(id, "%")
	if !ok || stamp == "" || escaped == "" {
		return 0, "", fmt.Errorf("malformed register id %q", id)
	}
	ms, err := strconv.ParseInt(stamp, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("malformed register id %q: %w", id, err)
	}
	target, err := unescape(escaped)
	if err != nil {
		return 0, "", fmt.Errorf("malformed register id %q: %w", id, err)
	}
	return ms, target, nil
}

// unescape scans left to right: every '%' in an escaped path starts an
// escape sequence, so sequences never overlap.
func unescape(s string) (string, error) {
	var b strings.Builder
	for len(s) > 0 {
		i := strings.IndexByte(s, '%')
		if i < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:i])
		s = s[i:]
		switch {
		case strings.HasPrefix(s, escapedPercent):
			b.WriteByte('%')
			s = s[len(escapedPercent):]
		case strings.HasPrefix(s, escapedSlash):
			b.WriteByte('/')
			s = s[len(escapedSlash):]
		default:
			return "", fmt.Errorf("bad escape at %q", s)
		}
	}
	return b.String(), nil
}
