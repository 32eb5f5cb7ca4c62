package constraint

import "strings"

// cityAliases maps localized spellings seen in postings to canonical city
// names. Hebrew postings routinely abbreviate Tel Aviv to ת"א and Petah
// Tikva to פ"ת; without the mapping those postings would slip past the
// allow-list or fail it under the wrong name. Ordered so the detected city
// is deterministic when a posting names more than one.
var cityAliases = []struct {
	alias     string
	canonical string
}{
	{`ת"א`, "tel aviv"},
	{"ת״א", "tel aviv"},
	{"ת'א", "tel aviv"},
	{"תל אביב-יפו", "tel aviv"},
	{"תל אביב", "tel aviv"},
	{"תל-אביב", "tel aviv"},
	{`פ"ת`, "petah tikva"},
	{"פ״ת", "petah tikva"},
	{"פתח תקווה", "petah tikva"},
	{"פתח תקוה", "petah tikva"},
	{"פתח-תקווה", "petah tikva"},
	{"כפר סבא", "kfar saba"},
	{"רעננה", "raanana"},
	{"הרצליה", "herzliya"},
	{"חיפה", "haifa"},
	{"ירושלים", "jerusalem"},
	{"נתניה", "netanya"},
	{"באר שבע", "beer sheva"},
	{"מודיעין", "modiin"},
}

// knownCities is the broader set a posting may name in English.
var knownCities = []string{
	"tel aviv", "kfar saba", "petah tikva", "jerusalem", "haifa",
	"herzliya", "raanana", "netanya", "beer sheva", "modiin",
}

// canonicalCity returns the canonical form of the first known city named in
// the posting text, or "" when no specific city is mentioned. Hebrew aliases
// are matched against the raw text (Hebrew has no letter case), English
// names against the lowered text.
func canonicalCity(raw, lowered string) string {
	for _, ca := range cityAliases {
		if strings.Contains(raw, ca.alias) {
			return ca.canonical
		}
	}
	for _, city := range knownCities {
		if strings.Contains(lowered, city) {
			return city
		}
	}
	return ""
}
