package catalog

import "sort"

// keywordTranslations maps French business-category phrases to the English
// keyword sent to the Places Nearby Search endpoint.
var keywordTranslations = map[string]string{
	"agence immobiliere":    "real estate agency",
	"agent immobilier":      "real estate agent",
	"architecte":            "architect",
	"assurance":             "insurance agency",
	"avocat":                "lawyer",
	"bar":                   "bar",
	"boucherie":             "butcher shop",
	"boulangerie":           "bakery",
	"cafe":                  "cafe",
	"chiropraticien":        "chiropractor",
	"clinique":              "clinic",
	"clinique dentaire":     "dental clinic",
	"coiffeur":              "hair salon",
	"comptable":             "accountant",
	"couvreur":              "roofing contractor",
	"courtier hypothecaire": "mortgage broker",
	"courtier immobilier":   "real estate broker",
	"demenagement":          "moving company",
	"dentiste":              "dentist",
	"ebeniste":              "cabinet maker",
	"electricien":           "electrician",
	"entrepreneur general":  "general contractor",
	"epicerie":              "grocery store",
	"esthetique":            "beauty salon",
	"fleuriste":             "florist",
	"garage":                "auto repair",
	"gym":                   "gym",
	"hotel":                 "hotel",
	"mecanicien":            "mechanic",
	"menuisier":             "carpenter",
	"notaire":               "notary",
	"opticien":              "optician",
	"optometriste":          "optometrist",
	"paysagiste":            "landscaper",
	"peintre":               "painter",
	"pharmacie":             "pharmacy",
	"physiotherapeute":      "physiotherapist",
	"plombier":              "plumber",
	"restaurant":            "restaurant",
	"salle de sport":        "gym",
	"salon de coiffure":     "hair salon",
	"serrurier":             "locksmith",
	"spa":                   "spa",
	"traiteur":              "caterer",
	"veterinaire":           "veterinarian",
}

// Translate returns the English search keyword for a French category phrase.
// Matching ignores case, surrounding whitespace and diacritics. Unknown terms
// are returned unchanged.
func Translate(term string) string {
	if en, ok := keywordTranslations[foldKey(term)]; ok {
		return en
	}
	return term
}

// Categories returns the known French category phrases in sorted order.
func Categories() []string {
	out := make([]string, 0, len(keywordTranslations))
	for k := range keywordTranslations {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
