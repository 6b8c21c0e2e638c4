package transform

import (
	"strings"

	"github.com/profilestream/profilestream/internal/model"
)

// ComposeAddress derives a free-text address from the location
// sub-fields, most specific first: housenumber, street, suburb, town,
// city, district, region. Null fields are skipped and the rest joined
// with ", ". All seven null yields the empty string, which is a valid
// address for a coordinate the geocoder could not resolve.
func ComposeAddress(loc model.DocLocation) string {
	parts := make([]string, 0, 7)
	for _, field := range []*string{
		loc.HouseNumber,
		loc.Street,
		loc.Suburb,
		loc.Town,
		loc.City,
		loc.District,
		loc.Region,
	} {
		if field != nil {
			parts = append(parts, *field)
		}
	}
	return strings.Join(parts, ", ")
}
