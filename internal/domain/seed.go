package domain

// SeedCandidates returns the demo ballot used when no candidate snapshot
// exists yet, so a fresh deployment renders something votable.
func SeedCandidates() []Candidate {
	return []Candidate{
		{
			ID:         "c1",
			Name:       "Elena Rodriguez",
			Department: DepartmentPresident,
			Bio:        "Visionary leader focused on sustainable growth and community empowerment.",
			ImageURL:   "https://picsum.photos/200/200?random=1",
			Votes:      45,
		},
		{
			ID:         "c2",
			Name:       "Marcus Chen",
			Department: DepartmentPresident,
			Bio:        "Tech innovator bringing efficiency and transparency to governance.",
			ImageURL:   "https://picsum.photos/200/200?random=2",
			Votes:      38,
		},
		{
			ID:         "c3",
			Name:       "Sarah Johnson",
			Department: DepartmentVicePresident,
			Bio:        "Dedicated advocate for student welfare and academic excellence.",
			ImageURL:   "https://picsum.photos/200/200?random=3",
			Votes:      42,
		},
		{
			ID:         "c4",
			Name:       "David Okafor",
			Department: DepartmentVicePresident,
			Bio:        "Bridge builder connecting diverse groups for a unified voice.",
			ImageURL:   "https://picsum.photos/200/200?random=4",
			Votes:      40,
		},
		{
			ID:         "c5",
			Name:       "Emily Blunt",
			Department: DepartmentSecretary,
			Bio:        "Organized and detail-oriented professional ensuring smooth operations.",
			ImageURL:   "https://picsum.photos/200/200?random=5",
			Votes:      55,
		},
		{
			ID:         "c6",
			Name:       "James Smith",
			Department: DepartmentTreasurer,
			Bio:        "Fiscal conservative with a knack for strategic resource allocation.",
			ImageURL:   "https://picsum.photos/200/200?random=6",
			Votes:      60,
		},
	}
}
