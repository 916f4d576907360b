package sensor

import (
	"strconv"
	"strings"
)

// ParseSample parses one "x,y,z" line as emitted by the dev-kit firmware
// and by recorded captures. Lines that do not hold exactly three finite
// floats are rejected; callers are expected to skip them silently.
func ParseSample(line string) (Sample, bool) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != 3 {
		return Sample{}, false
	}

	var values [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Sample{}, false
		}
		values[i] = v
	}

	result := Sample{values[0], values[1], values[2]}
	if !result.IsFinite() {
		return Sample{}, false
	}
	return result, true
}
