package human

import (
	"fmt"
	"math"
)

// Bytes formats b as a human readable size using decimal units, e.g. "83 MB".
func Bytes(b int64) string {
	if b <= 0 {
		return "0 B"
	}
	sizes := []string{"B", "kB", "MB", "GB", "TB"}
	e := math.Floor(math.Log(float64(b)) / math.Log(1000))
	e = math.Min(e, float64(len(sizes)-1))
	suffix := sizes[int(e)]
	val := float64(b) / math.Pow(1000, e)
	return fmt.Sprintf("%.0f %s", val, suffix)
}
