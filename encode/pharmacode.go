package encode

import (
	"fmt"
	"strconv"

	"github.com/ericlevine/zxinggo/bitutil"
	"github.com/ericlevine/zxinggo/oned"
)

// Pharmacode (pharmaceutical binary code, one-track) encodes an integer
// in [3, 131070] as a run of narrow (1 module) and wide (3 module) bars
// separated by 2-module spaces. The zxinggo writer set does not include
// it, so the bar sequence is produced here and rendered through the
// shared oned renderer.

func encodePharmacode(contents string) (*bitutil.BitMatrix, error) {
	value, err := strconv.Atoi(contents)
	if err != nil {
		return nil, fmt.Errorf("pharmacode contents must be an integer: %w", err)
	}
	if value < 3 || value > 131070 {
		return nil, fmt.Errorf("pharmacode value %d outside [3, 131070]", value)
	}

	// Derive bars least significant first, then emit in reverse.
	var wide []bool
	for value > 0 {
		if value%2 == 0 {
			wide = append(wide, true)
			value = (value - 2) / 2
		} else {
			wide = append(wide, false)
			value = (value - 1) / 2
		}
	}

	modules := 0
	for _, w := range wide {
		if w {
			modules += 3
		} else {
			modules++
		}
	}
	modules += 2 * (len(wide) - 1)

	code := make([]bool, modules)
	pos := 0
	for i := len(wide) - 1; i >= 0; i-- {
		barWidth := 1
		if wide[i] {
			barWidth = 3
		}
		pos += oned.AppendPattern(code, pos, []int{barWidth}, true)
		if i > 0 {
			pos += oned.AppendPattern(code, pos, []int{2}, false)
		}
	}

	return oned.RenderOneDCode(code, 0, 1), nil
}
