package generator

import (
	"fmt"
	"math/rand"
)

// ghanaPrefixes are the mobile network prefixes phone numbers are drawn
// from, after the 233 country code.
var ghanaPrefixes = []string{"20", "50", "24", "54", "59", "53", "27", "57"}

// GhanaPhone generates a random Ghanaian mobile number in international
// format without the leading plus, e.g. "2332012345678".
func GhanaPhone() string {
	prefix := ghanaPrefixes[rand.Intn(len(ghanaPrefixes))]
	return fmt.Sprintf("233%s%07d", prefix, rand.Intn(9000000)+1000000)
}
