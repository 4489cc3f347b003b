package content

// Developer is a community member profile.
type Developer struct {
	Slug         string   `json:"slug"`
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	Location     string   `json:"location,omitempty"`
	ImageURL     string   `json:"imageUrl"`
	Bio          string   `json:"bio"`
	XURL         string   `json:"xUrl,omitempty"`
	LinkedinURL  string   `json:"linkedinUrl,omitempty"`
	GithubURL    string   `json:"githubUrl,omitempty"`
	WebsiteURL   string   `json:"websiteUrl,omitempty"`
	Expertise    []string `json:"expertise,omitempty"`
	Availability string   `json:"availability,omitempty"`
}

// SameAs lists the developer's external profile links.
func (d Developer) SameAs() []string {
	var out []string
	for _, u := range []string{d.XURL, d.LinkedinURL, d.GithubURL, d.WebsiteURL} {
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}

// AllDevelopers returns every developer ordered by name.
func (s *Store) AllDevelopers() []Developer {
	out := make([]Developer, len(s.developers))
	copy(out, s.developers)
	return out
}

// DeveloperBySlug returns the developer whose slug equals slug exactly.
func (s *Store) DeveloperBySlug(slug string) (Developer, error) {
	for _, d := range s.developers {
		if d.Slug == slug {
			return d, nil
		}
	}
	return Developer{}, ErrNotFound
}

// DeveloperByName returns the developer whose name equals name exactly.
func (s *Store) DeveloperByName(name string) (Developer, error) {
	for _, d := range s.developers {
		if d.Name == name {
			return d, nil
		}
	}
	return Developer{}, ErrNotFound
}

// FindDeveloperForAuthor links an article byline to a profile by exact
// name. The relation is not enforced by the content store.
func (s *Store) FindDeveloperForAuthor(name string) (Developer, bool) {
	if name == "" {
		return Developer{}, false
	}
	d, err := s.DeveloperByName(name)
	return d, err == nil
}

// SpeakerProfile links a talk speaker to a profile by slug, if any.
func (s *Store) SpeakerProfile(sp Speaker) (Developer, bool) {
	if sp.Slug == "" {
		return Developer{}, false
	}
	d, err := s.DeveloperBySlug(sp.Slug)
	return d, err == nil
}
