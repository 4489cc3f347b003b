package content

import (
	"sort"
	"time"
)

// Venue is where an event takes place.
type Venue struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
}

// Speaker gives a talk. Slug, when set, may name a Developer profile.
type Speaker struct {
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Talk is one session of an event.
type Talk struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Level       string  `json:"level,omitempty"`
	Speaker     Speaker `json:"speaker"`
}

// EventData is an event record as stored in events.json.
type EventData struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Timezone    string `json:"timezone"`
	Venue       Venue  `json:"venue"`
	Host        string `json:"host"`
	Description string `json:"description"`
	Talks       []Talk `json:"talks"`
}

// Event is an EventData with IsPast computed at read time.
type Event struct {
	EventData
	IsPast bool `json:"isPast"`

	loc *time.Location
}

// eventRecord caches the parsed instants of an event. The IsPast flag is
// never stored; it is derived from end on every read.
type eventRecord struct {
	data  EventData
	loc   *time.Location
	day   time.Time
	end   time.Time
	valid bool
}

const localDateTime = "2006-01-02T15:04"

func (s *Store) eventLocation(tz string) *time.Location {
	if tz == "" {
		return s.location
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		s.logger.Warn("unknown event timezone, using site default", "timezone", tz, "default", s.location.String())
		return s.location
	}
	return loc
}

func (s *Store) indexEvents(raw []EventData) []eventRecord {
	records := make([]eventRecord, 0, len(raw))
	for _, e := range raw {
		loc := s.eventLocation(e.Timezone)
		r := eventRecord{data: e, loc: loc}
		day, err := time.ParseInLocation("2006-01-02", e.Date, loc)
		if err != nil {
			s.logger.Warn("event has invalid date", "slug", e.Slug, "date", e.Date)
			records = append(records, r)
			continue
		}
		r.day = day
		end, err := time.ParseInLocation(localDateTime, e.Date+"T"+e.EndTime, loc)
		if err != nil {
			s.logger.Warn("event has invalid end time", "slug", e.Slug, "endTime", e.EndTime)
		} else {
			r.end = end
			r.valid = true
		}
		records = append(records, r)
	}
	return records
}

// IsPast reports whether the event has ended at now. The end instant is the
// event's date and end time read in its own timezone. Events whose end cannot
// be parsed are never past.
func (r eventRecord) IsPast(now time.Time) bool {
	return r.valid && !now.Before(r.end)
}

func (r eventRecord) at(now time.Time) Event {
	return Event{EventData: r.data, IsPast: r.IsPast(now), loc: r.loc}
}

// Start returns the start instant in the event's timezone, or the zero time
// when the date or start time cannot be parsed.
func (e Event) Start() time.Time {
	return e.instant(e.StartTime)
}

// End returns the end instant in the event's timezone.
func (e Event) End() time.Time {
	return e.instant(e.EndTime)
}

func (e Event) instant(clock string) time.Time {
	loc := e.loc
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(localDateTime, e.Date+"T"+clock, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (s *Store) selectEvents(keep func(eventRecord, time.Time) bool, ascending bool) []Event {
	now := s.now()
	var picked []eventRecord
	for _, r := range s.events {
		if keep(r, now) {
			picked = append(picked, r)
		}
	}
	sort.SliceStable(picked, func(i, j int) bool {
		if ascending {
			return picked[i].day.Before(picked[j].day)
		}
		return picked[i].day.After(picked[j].day)
	})
	out := make([]Event, len(picked))
	for i, r := range picked {
		out[i] = r.at(now)
	}
	return out
}

// AllEvents returns every event, newest date first.
func (s *Store) AllEvents() []Event {
	return s.selectEvents(func(eventRecord, time.Time) bool { return true }, false)
}

// UpcomingEvents returns events that have not ended, soonest first.
func (s *Store) UpcomingEvents() []Event {
	return s.selectEvents(func(r eventRecord, now time.Time) bool { return !r.IsPast(now) }, true)
}

// PastEvents returns events that have ended, most recent first.
func (s *Store) PastEvents() []Event {
	return s.selectEvents(func(r eventRecord, now time.Time) bool { return r.IsPast(now) }, false)
}

// EventBySlug returns the first event whose slug equals slug.
func (s *Store) EventBySlug(slug string) (Event, error) {
	for _, r := range s.events {
		if r.data.Slug == slug {
			return r.at(s.now()), nil
		}
	}
	return Event{}, ErrNotFound
}
