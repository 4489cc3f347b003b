package views

import "github.com/eringen/rnfi/content"

// labels is the built-in page chrome. Article and event copy comes from the
// content store, not from here.
var labels = map[content.Locale]map[string]string{
	content.English: {
		"nav.home":        "Home",
		"nav.articles":    "Articles",
		"nav.events":      "Events",
		"nav.developers":  "Developers",
		"nav.conferences": "Conferences",
		"nav.sponsors":    "Sponsors",
		"nav.consulting":  "Consulting",
		"nav.jobs":        "Jobs",

		"home.title":    "React Native Finland",
		"home.tagline":  "Finland's React Native community. Meetups in Helsinki, articles and a directory of local developers.",
		"home.upcoming": "Upcoming events",
		"home.latest":   "Latest articles",
		"home.meetups":  "Meetups",
		"home.noEvents": "No upcoming events right now. Check back soon.",

		"articles.title":        "Articles",
		"articles.description":  "Guides, recaps and deep dives from the React Native Finland community.",
		"articles.readingTime":  "min read",
		"articles.untranslated": "This article is not available in the language you chose. You are reading the English version.",
		"articles.contents":     "Contents",
		"articles.by":           "By",

		"events.title":       "Events",
		"events.description": "React Native meetups and workshops in Helsinki.",
		"events.upcoming":    "Upcoming",
		"events.past":        "Past events",
		"events.talks":       "Talks",
		"events.host":        "Hosted by",
		"events.none":        "No events.",

		"developers.title":        "Developers",
		"developers.description":  "React Native developers in Finland.",
		"developers.expertise":    "Expertise",
		"developers.availability": "Availability",
		"developers.talks":        "Talks",

		"conferences.title":       "Conferences",
		"conferences.description": "React Native and mobile conferences worth attending, meetups around Finland and tips for your CFP.",
		"conferences.meetups":     "Meetups",
		"conferences.tips":        "CFP tips",
		"conferences.cfp":         "Call for papers",
		"conferences.recurring":   "Recurring",

		"sponsors.title":   "Sponsors",
		"sponsors.intro":   "Our meetups are free thanks to the companies that host and sponsor them.",
		"sponsors.body":    "Want to host a meetup or sponsor pizza and drinks? Get in touch and we will find a date that works.",
		"consulting.title": "Consulting",
		"consulting.intro": "Need help with a React Native project? The community includes experienced consultants and agencies.",
		"consulting.body":  "Tell us about your project through the contact form and we will connect you with the right people.",
		"jobs.title":       "Jobs",
		"jobs.intro":       "React Native positions in Finland.",
		"jobs.body":        "Hiring? Send us the listing and we will share it with the community.",

		"contact.title":   "Contact",
		"contact.send":    "Send",
		"error.notFound":  "Page not found",
		"error.server":    "Something went wrong",
		"error.back":      "Back to the front page",
		"footer.language": "Language",
	},
	content.Finnish: {
		"nav.home":        "Etusivu",
		"nav.articles":    "Artikkelit",
		"nav.events":      "Tapahtumat",
		"nav.developers":  "Kehittäjät",
		"nav.conferences": "Konferenssit",
		"nav.sponsors":    "Sponsorit",
		"nav.consulting":  "Konsultointi",
		"nav.jobs":        "Työpaikat",

		"home.title":    "React Native Finland",
		"home.tagline":  "Suomen React Native -yhteisö. Meetupeja Helsingissä, artikkeleita ja paikallisten kehittäjien hakemisto.",
		"home.upcoming": "Tulevat tapahtumat",
		"home.latest":   "Uusimmat artikkelit",
		"home.meetups":  "Meetupit",
		"home.noEvents": "Ei tulevia tapahtumia juuri nyt. Palaa pian uudelleen.",

		"articles.title":        "Artikkelit",
		"articles.description":  "Oppaita, koosteita ja syväsukelluksia React Native Finland -yhteisöltä.",
		"articles.readingTime":  "min lukuaika",
		"articles.untranslated": "Tätä artikkelia ei ole vielä käännetty suomeksi. Luet englanninkielistä versiota.",
		"articles.contents":     "Sisältö",
		"articles.by":           "Kirjoittanut",

		"events.title":       "Tapahtumat",
		"events.description": "React Native -meetupit ja työpajat Helsingissä.",
		"events.upcoming":    "Tulevat",
		"events.past":        "Menneet tapahtumat",
		"events.talks":       "Puheet",
		"events.host":        "Isäntä",
		"events.none":        "Ei tapahtumia.",

		"developers.title":        "Kehittäjät",
		"developers.description":  "React Native -kehittäjiä Suomessa.",
		"developers.expertise":    "Osaaminen",
		"developers.availability": "Saatavuus",
		"developers.talks":        "Puheet",

		"conferences.title":       "Konferenssit",
		"conferences.description": "React Native- ja mobiilikonferensseja, meetupeja ympäri Suomea ja vinkkejä CFP-hakemukseen.",
		"conferences.meetups":     "Meetupit",
		"conferences.tips":        "CFP-vinkit",
		"conferences.cfp":         "Puhujahaku",
		"conferences.recurring":   "Toistuva",

		"sponsors.title":   "Sponsorit",
		"sponsors.intro":   "Meetupimme ovat ilmaisia niitä isännöivien ja sponsoroivien yritysten ansiosta.",
		"sponsors.body":    "Haluatko isännöidä meetupin tai tarjota pizzat ja juomat? Ota yhteyttä, niin sovitaan sopiva päivä.",
		"consulting.title": "Konsultointi",
		"consulting.intro": "Tarvitsetko apua React Native -projektiin? Yhteisössä on kokeneita konsultteja ja toimistoja.",
		"consulting.body":  "Kerro projektistasi yhteydenottolomakkeella, niin yhdistämme sinut oikeisiin ihmisiin.",
		"jobs.title":       "Työpaikat",
		"jobs.intro":       "React Native -työpaikkoja Suomessa.",
		"jobs.body":        "Rekrytoitko? Lähetä ilmoitus, niin jaamme sen yhteisölle.",

		"contact.title":   "Yhteystiedot",
		"contact.send":    "Lähetä",
		"error.notFound":  "Sivua ei löytynyt",
		"error.server":    "Jokin meni pieleen",
		"error.back":      "Takaisin etusivulle",
		"footer.language": "Kieli",
	},
}

// T returns the label for key in locale, falling back to the default
// locale and then to the key itself.
func T(locale content.Locale, key string) string {
	if s, ok := labels[locale][key]; ok {
		return s
	}
	if s, ok := labels[content.DefaultLocale][key]; ok {
		return s
	}
	return key
}
