package attendance

import (
	"fmt"
	"strings"
	"time"
)

// spaceReplacer folds the narrow and regular no-break spaces that newer
// exports put before AM/PM into plain spaces.
var spaceReplacer = strings.NewReplacer("\u202f", " ", "\u00a0", " ")

// ParseTimestamp parses value with the first matching layout, in loc.
// No shared state is touched, so a failed or successful fallback cannot
// affect any other parse.
func ParseTimestamp(value string, layouts []string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	v := strings.TrimSpace(spaceReplacer.Replace(value))
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w %q, expected one of %q", ErrBadTimestamp, value, layouts)
}
