package explore

// Stop is one curated entry of a journey. Article is the upstream title whose
// summary decorates the stop.
type Stop struct {
	Label   string
	Blurb   string
	Article string
}

type Journey struct {
	Name     string
	Title    string
	Subtitle string
	Stops    []Stop
}

type Destination struct {
	Name    string
	Country string
}

// PopularDestinations are the home page shortcuts. Each one opens a search.
var PopularDestinations = []Destination{
	{Name: "Istanbul", Country: "Turkey"},
	{Name: "Paris", Country: "France"},
	{Name: "Tokyo", Country: "Japan"},
	{Name: "Rome", Country: "Italy"},
	{Name: "New York City", Country: "USA"},
	{Name: "Cairo", Country: "Egypt"},
	{Name: "London", Country: "UK"},
	{Name: "Barcelona", Country: "Spain"},
}

var journeys = []Journey{
	{
		Name:     "istanbul",
		Title:    "Istanbul",
		Subtitle: "Where continents meet and civilizations merge",
		Stops: []Stop{
			{Label: "A Visual Journey", Blurb: "Where continents meet and fifteen million stories overlap.", Article: "Istanbul"},
			{Label: "The Dome That Changed Architecture", Blurb: "For a thousand years Hagia Sophia held the record for the largest enclosed space on Earth.", Article: "Hagia_Sophia"},
			{Label: "Four Thousand Shops Under One Roof", Blurb: "Sixty-one covered streets and half a millennium of haggling.", Article: "Grand_Bazaar,_Istanbul"},
			{Label: "The Strait Between Two Worlds", Blurb: "A ribbon of dark water dividing Europe from Asia.", Article: "Bosphorus"},
			{Label: "A Glass of Hospitality", Blurb: "Turkey drinks more tea per person than any country on Earth.", Article: "Turkish_tea"},
		},
	},
	{
		Name:     "destinations",
		Title:    "The Land",
		Subtitle: "Mountains, coasts, and geological wonders",
		Stops: []Stop{
			{Label: "Cappadocia", Blurb: "Fairy chimneys and underground cities", Article: "Cappadocia"},
			{Label: "Pamukkale", Blurb: "White travertine terraces and Roman ruins", Article: "Pamukkale"},
			{Label: "Ephesus", Blurb: "Ancient Greek and Roman city", Article: "Ephesus"},
		},
	},
	{
		Name:     "history",
		Title:    "Through Time",
		Subtitle: "Three chapters of an ancient land",
		Stops: []Stop{
			{Label: "330 AD: Byzantine Era", Blurb: "Constantinople, the New Rome", Article: "Byzantine Empire"},
			{Label: "1299: Ottoman Empire", Blurb: "From beylik to world power", Article: "Ottoman Empire"},
			{Label: "1923: Republic", Blurb: "A nation reborn from ashes", Article: "Turkey"},
		},
	},
	{
		Name:     "culture",
		Title:    "The People",
		Subtitle: "Traditions that define a culture",
		Stops: []Stop{
			{Label: "Tea Culture", Blurb: "A ritual of hospitality and connection", Article: "Turkish tea"},
			{Label: "Misafirperverlik", Blurb: "The sacred duty of welcoming guests", Article: "Hospitality"},
			{Label: "Turkish Coffee", Blurb: "Fortune-telling and slow conversation", Article: "Turkish coffee"},
		},
	},
}

// Journeys lists the curated journeys in display order.
func Journeys() []Journey {
	out := make([]Journey, len(journeys))
	copy(out, journeys)
	return out
}

func FindJourney(name string) (Journey, bool) {
	for _, j := range journeys {
		if j.Name == name {
			return j, true
		}
	}
	return Journey{}, false
}

func (j Journey) articles() []string {
	titles := make([]string, 0, len(j.Stops))
	for _, s := range j.Stops {
		titles = append(titles, s.Article)
	}
	return titles
}
