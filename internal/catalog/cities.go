package catalog

import "github.com/jonathan/geo-prospector/internal/types"

// cities is the supported city list. Coordinates are city-centre points used
// as the Nearby Search origin.
var cities = []types.CityDescriptor{
	{Name: "Montréal", Aliases: []string{"montreal", "mtl", "ville de montreal"}, Province: "QC", Latitude: 45.5017, Longitude: -73.5673},
	{Name: "Québec", Aliases: []string{"quebec", "quebec city", "ville de quebec"}, Province: "QC", Latitude: 46.8139, Longitude: -71.2080},
	{Name: "Laval", Province: "QC", Latitude: 45.6066, Longitude: -73.7124},
	{Name: "Gatineau", Aliases: []string{"hull"}, Province: "QC", Latitude: 45.4765, Longitude: -75.7013},
	{Name: "Longueuil", Aliases: []string{"rive-sud"}, Province: "QC", Latitude: 45.5312, Longitude: -73.5181},
	{Name: "Sherbrooke", Province: "QC", Latitude: 45.4042, Longitude: -71.8929},
	{Name: "Saguenay", Aliases: []string{"chicoutimi"}, Province: "QC", Latitude: 48.4284, Longitude: -71.0685},
	{Name: "Lévis", Aliases: []string{"levis"}, Province: "QC", Latitude: 46.8033, Longitude: -71.1779},
	{Name: "Trois-Rivières", Aliases: []string{"trois-rivieres", "trois rivieres"}, Province: "QC", Latitude: 46.3432, Longitude: -72.5430},
	{Name: "Terrebonne", Province: "QC", Latitude: 45.7000, Longitude: -73.6473},
	{Name: "Saint-Jean-sur-Richelieu", Aliases: []string{"st-jean-sur-richelieu", "saint-jean"}, Province: "QC", Latitude: 45.3071, Longitude: -73.2626},
	{Name: "Drummondville", Province: "QC", Latitude: 45.8803, Longitude: -72.4843},
	{Name: "Granby", Province: "QC", Latitude: 45.4000, Longitude: -72.7333},
	{Name: "Ottawa", Province: "ON", Latitude: 45.4215, Longitude: -75.6972},
	{Name: "Toronto", Province: "ON", Latitude: 43.6532, Longitude: -79.3832},
}

var cityIndex = buildCityIndex(cities)

func buildCityIndex(list []types.CityDescriptor) map[string]int {
	idx := make(map[string]int, len(list)*3)
	for i, c := range list {
		idx[foldKey(c.Name)] = i
		for _, alias := range c.Aliases {
			idx[foldKey(alias)] = i
		}
	}
	return idx
}

// ResolveCity finds the city whose canonical name or alias matches name,
// ignoring case, surrounding whitespace and diacritics.
func ResolveCity(name string) (types.CityDescriptor, bool) {
	i, ok := cityIndex[foldKey(name)]
	if !ok {
		return types.CityDescriptor{}, false
	}
	c := cities[i]
	c.Aliases = append([]string(nil), c.Aliases...)
	return c, true
}

// Cities returns a copy of the supported city list.
func Cities() []types.CityDescriptor {
	out := make([]types.CityDescriptor, len(cities))
	for i, c := range cities {
		c.Aliases = append([]string(nil), c.Aliases...)
		out[i] = c
	}
	return out
}
