package content

// Conference is a listed external conference.
type Conference struct {
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Date        string   `json:"date"`
	DateDetail  string   `json:"dateDetail"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags"`
	Recurring   string   `json:"recurring"`
	CfpStatus   string   `json:"cfpStatus"`
	CfpURL      string   `json:"cfpUrl,omitempty"`
}

// Meetup is a listed recurring meetup.
type Meetup struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Frequency   string `json:"frequency"`
}

// CfpTip is advice for call-for-papers submissions.
type CfpTip struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *Store) Conferences() []Conference {
	out := make([]Conference, len(s.conferences))
	copy(out, s.conferences)
	return out
}

func (s *Store) Meetups() []Meetup {
	out := make([]Meetup, len(s.meetups))
	copy(out, s.meetups)
	return out
}

func (s *Store) CfpTips() []CfpTip {
	out := make([]CfpTip, len(s.cfpTips))
	copy(out, s.cfpTips)
	return out
}
