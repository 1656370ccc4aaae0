package clinical

import (
	"strconv"
	"strings"
)

// MMRCUnknown is returned for a grade that is not one of "0".."4".
const MMRCUnknown = -1

func ParseMMRC(grade string) int {
	n, err := strconv.Atoi(strings.TrimSpace(grade))
	if err != nil || n < 0 || n > 4 {
		return MMRCUnknown
	}
	return n
}

func ValidMMRC(grade string) bool {
	return ParseMMRC(grade) != MMRCUnknown
}
