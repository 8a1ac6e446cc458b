package aggregator

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dennisdiepolder/monti/recovery/internal/types"
)

type nameParts struct {
	prefix string
	number int // -1 when the name has no digits
	suffix string
}

func splitName(name string) nameParts {
	i := strings.IndexFunc(name, isDigit)
	if i < 0 {
		return nameParts{prefix: strings.ToUpper(name), number: -1}
	}
	j := i
	for j < len(name) && isDigit(rune(name[j])) {
		j++
	}
	n, err := strconv.Atoi(name[i:j])
	if err != nil {
		n = -1
	}
	return nameParts{
		prefix: strings.ToUpper(name[:i]),
		number: n,
		suffix: strings.ToUpper(name[j:]),
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// NaturalLess orders names by alphabetic prefix, then numeric part, then
// trailing suffix, so CC2 < CC10 < CC10B.
func NaturalLess(a, b string) bool {
	pa, pb := splitName(a), splitName(b)
	if pa.prefix != pb.prefix {
		return pa.prefix < pb.prefix
	}
	if pa.number != pb.number {
		return pa.number < pb.number
	}
	if pa.suffix != pb.suffix {
		return pa.suffix < pb.suffix
	}
	return a < b
}

// SortCallCenters sorts rows by display name using NaturalLess
func SortCallCenters(rows []types.CallCenterMetrics) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CallCenter == rows[j].CallCenter {
			return rows[i].Key < rows[j].Key
		}
		return NaturalLess(rows[i].CallCenter, rows[j].CallCenter)
	})
}
