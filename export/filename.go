package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ByLCY/safescan/config"
)

// DefaultFilenameTemplate names artifacts after the symbology and the
// export moment.
const DefaultFilenameTemplate = "safescan-${symbology}-${timestamp}.${ext}"

var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Filename expands template with values derived from cfg, format and
// now. Unknown placeholders are left intact so a malformed template is
// visible in the output name instead of silently eaten.
func Filename(template string, cfg config.Configuration, format Format, now time.Time) string {
	values := map[string]any{
		"symbology":  cfg.Symbology.String(),
		"ext":        format.Extension(),
		"timestamp":  now.UnixMilli(),
		"resolution": cfg.Resolution,
	}
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		groups := placeholderPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		key := strings.TrimSpace(groups[1])
		if val, ok := values[key]; ok {
			return fmt.Sprint(val)
		}
		return match
	})
}
