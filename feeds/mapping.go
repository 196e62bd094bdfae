package feeds

import "strings"

// ilsPropertyTypes translates internal property types into the ILS controlled
// vocabulary. Anything unmapped renders as a house.
var ilsPropertyTypes = map[string]string{
	"apartment":         "Apartment",
	"condo":             "Condo",
	"house":             "House for Rent",
	"manufactured_home": "House for Rent",
	"storage":           "House for Rent",
	"rv":                "House for Rent",
}

const defaultILSPropertyType = "House for Rent"

// ILSPropertyType maps an internal property type to the partner vocabulary.
func ILSPropertyType(propertyType string) string {
	if mapped, ok := ilsPropertyTypes[propertyType]; ok {
		return mapped
	}
	return defaultILSPropertyType
}

// amenityGroups is matched in order against the lowercased amenity text;
// the first group with a matching keyword wins.
var amenityGroups = []struct {
	keywords []string
	category string
}{
	{[]string{"dishwasher"}, "Dishwasher"},
	{[]string{"air", "ac"}, "AirConditioner"},
	{[]string{"laundry", "washer"}, "WasherDryer"},
	{[]string{"heating", "heat"}, "Heating"},
}

const defaultAmenityCategory = "Other"

// AmenityCategory maps a free text amenity string to the partner's amenity
// category by case insensitive substring match.
func AmenityCategory(amenity string) string {
	lower := strings.ToLower(amenity)
	for _, group := range amenityGroups {
		for _, keyword := range group.keywords {
			if strings.Contains(lower, keyword) {
				return group.category
			}
		}
	}
	return defaultAmenityCategory
}
