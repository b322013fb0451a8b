package seedmodels

// SeedTheme is one Learning Pathway theme in the seed file, with its nested
// categories and subsections.
type SeedTheme struct {
	Name       string         `json:"name"`
	Categories []SeedCategory `json:"categories"`
}

// SeedCategory is one category of a seed theme.
type SeedCategory struct {
	Name        string   `json:"name"`
	Subsections []string `json:"subsections"`
}

// SeedTemplate is one prompt template in the seed file.
type SeedTemplate struct {
	Name string `json:"name"`
	Body string `json:"body"`
}

// SeedFile is the top-level seed document.
type SeedFile struct {
	Themes    []SeedTheme    `json:"themes"`
	Templates []SeedTemplate `json:"templates"`
	Tags      []string       `json:"tags"`
}
