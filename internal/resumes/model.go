package resumes

// StructuredResume is the canonical parsed-resume record. It is what the
// parse endpoint returns, what gets persisted as a processed artifact, and
// what downstream features (job matching, chat, saving) consume.
type StructuredResume struct {
	Name           string       `json:"name,omitempty"`
	Email          string       `json:"email,omitempty"`
	Phone          string       `json:"phone,omitempty"`
	Location       string       `json:"location,omitempty"`
	Summary        string       `json:"summary,omitempty"`
	Skills         []string     `json:"skills,omitempty"`
	Experience     []Experience `json:"experience,omitempty"`
	Education      []Education  `json:"education,omitempty"`
	Projects       []Project    `json:"projects,omitempty"`
	Certifications []string     `json:"certifications,omitempty"`
	Languages      []string     `json:"languages,omitempty"`
	Social         *Social      `json:"social,omitempty"`
	Achievements   []string     `json:"achievements,omitempty"`
	Leadership     []Leadership `json:"leadership,omitempty"`

	// SourceFile is always stamped so every record traces back to an upload.
	SourceFile string `json:"source_file"`
	// Error is set exactly when extraction or synthesis failed.
	Error string `json:"error,omitempty"`
}

// Experience is one employment entry.
type Experience struct {
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
}

// Education is one education entry.
type Education struct {
	Degree      string `json:"degree,omitempty"`
	Institution string `json:"institution,omitempty"`
	Date        string `json:"date,omitempty"`
	GPA         string `json:"gpa,omitempty"`
}

// Project is one project entry.
type Project struct {
	Name         string   `json:"name,omitempty"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// Social holds profile links.
type Social struct {
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	LeetCode string `json:"leetcode,omitempty"`
	MoreInfo string `json:"more_info,omitempty"`
}

// Leadership is one leadership or volunteering entry.
type Leadership struct {
	Role         string   `json:"role,omitempty"`
	Organization string   `json:"organization,omitempty"`
	Date         string   `json:"date,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

// Failed reports whether the record carries an error instead of parsed data.
func (r StructuredResume) Failed() bool {
	return r.Error != ""
}

// ErrorRecord builds a failure record tied to its source upload.
func ErrorRecord(sourceFile, message string) StructuredResume {
	return StructuredResume{SourceFile: sourceFile, Error: message}
}
