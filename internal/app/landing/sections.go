package landing

// Section is one full-viewport content panel of the landing experience.
type Section struct {
	Index    int      `json:"index"`
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Tagline  string   `json:"tagline"`
	Points   []string `json:"points,omitempty"`
	ActionTo string   `json:"actionTo,omitempty"`
}

// Sections returns the four landing sections in display order.
func Sections() []Section {
	return []Section{
		{
			Index:   1,
			ID:      "hero",
			Title:   "Legal documents, drafted in minutes",
			Tagline: "Professional contracts, NDAs, and loan agreements without the law-firm price tag.",
			Points: []string{
				"AI-assisted drafting with attorney-grade templates",
				"Your documents, your data — export any time",
			},
			ActionTo: "/auth",
		},
		{
			Index:   2,
			ID:      "features",
			Title:   "Everything you need to get to signature",
			Tagline: "Pick a template, answer a few questions, download a ready-to-sign document.",
			Points: []string{
				"Contract agreements tailored to your business",
				"Non-disclosure agreements that protect what matters",
				"Loan agreements with proper legal structure",
			},
		},
		{
			Index:   3,
			ID:      "workflow",
			Title:   "How it works",
			Tagline: "Three steps from blank page to binding document.",
			Points: []string{
				"Choose a document type",
				"Fill in the parties and terms",
				"Generate, review, and download",
			},
		},
		{
			Index:    4,
			ID:       "cta",
			Title:    "Start drafting today",
			Tagline:  "Two free documents on us. No credit card required.",
			ActionTo: "/pricing",
		},
	}
}
