package codec

// states maps remote state codes to display names.
var states = map[string]string{
	"AL": "Alabama",
	"AK": "Alaska",
	"AZ": "Arizona",
	"AR": "Arkansas",
	"AA": "Armed Forces Americas",
	"AE": "Armed Forces Europe",
	"AP": "Armed Forces Pacific",
	"CA": "California",
	"CO": "Colorado",
	"CT": "Connecticut",
	"DE": "Delaware",
	"DC": "District of Columbia",
	"FL": "Florida",
	"GA": "Georgia",
	"HI": "Hawaii",
	"ID": "Idaho",
	"IL": "Illinois",
	"IN": "Indiana",
	"IA": "Iowa",
	"KS": "Kansas",
	"KY": "Kentucky",
	"LA": "Louisiana",
	"ME": "Maine",
	"MD": "Maryland",
	"MA": "Massachusetts",
	"MI": "Michigan",
	"MN": "Minnesota",
	"MS": "Mississippi",
	"MO": "Missouri",
	"MT": "Montana",
	"NE": "Nebraska",
	"NV": "Nevada",
	"NH": "New Hampshire",
	"NJ": "New Jersey",
	"NM": "New Mexico",
	"NY": "New York",
	"NC": "North Carolina",
	"ND": "North Dakota",
	"OH": "Ohio",
	"OK": "Oklahoma",
	"OR": "Oregon",
	"PA": "Pennsylvania",
	"PR": "Puerto Rico",
	"RI": "Rhode Island",
	"SC": "South Carolina",
	"SD": "South Dakota",
	"TN": "Tennessee",
	"TX": "Texas",
	"UT": "Utah",
	"VT": "Vermont",
	"VA": "Virginia",
	"WA": "Washington",
	"WV": "West Virginia",
	"WI": "Wisconsin",
	"WY": "Wyoming",
}

// countries maps remote country enum values to display names.
var countries = map[string]string{
	"_argentina":          "Argentina",
	"_australia":          "Australia",
	"_austria":            "Austria",
	"_belgium":            "Belgium",
	"_brazil":             "Brazil",
	"_canada":             "Canada",
	"_chile":              "Chile",
	"_china":              "China",
	"_czechRepublic":      "Czech Republic",
	"_denmark":            "Denmark",
	"_finland":            "Finland",
	"_france":             "France",
	"_germany":            "Germany",
	"_greece":             "Greece",
	"_hongKong":           "Hong Kong",
	"_india":              "India",
	"_ireland":            "Ireland",
	"_israel":             "Israel",
	"_italy":              "Italy",
	"_japan":              "Japan",
	"_mexico":             "Mexico",
	"_netherlands":        "Netherlands",
	"_newZealand":         "New Zealand",
	"_norway":             "Norway",
	"_poland":             "Poland",
	"_portugal":           "Portugal",
	"_singapore":          "Singapore",
	"_southAfrica":        "South Africa",
	"_spain":              "Spain",
	"_sweden":             "Sweden",
	"_switzerland":        "Switzerland",
	"_unitedArabEmirates": "United Arab Emirates",
	"_unitedKingdom":      "United Kingdom",
	"_unitedStates":       "United States",
}

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

var (
	stateCodes   = invert(states)
	countryCodes = invert(countries)
)

// StateName returns the display name of a state code, or the input when unknown.
func StateName(code string) string {
	if name, ok := states[code]; ok {
		return name
	}
	return code
}

// StateCode returns the code of a state name, or the input when unknown.
func StateCode(name string) string {
	if code, ok := stateCodes[name]; ok {
		return code
	}
	return name
}

// CountryName returns the display name of a country enum value, or the input when unknown.
func CountryName(code string) string {
	if name, ok := countries[code]; ok {
		return name
	}
	return code
}

// CountryCode returns the enum value of a country name, or the input when unknown.
func CountryCode(name string) string {
	if code, ok := countryCodes[name]; ok {
		return code
	}
	return name
}
