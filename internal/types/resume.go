package types

// ResumeData is the structured content rendered into a resume template.
type ResumeData struct {
	Name       string            `json:"name" validate:"required"`
	Email      string            `json:"email,omitempty" validate:"omitempty,email"`
	Phone      string            `json:"phone,omitempty"`
	Location   string            `json:"location,omitempty"`
	Summary    string            `json:"summary,omitempty"`
	Skills     []string          `json:"skills,omitempty"`
	Experience []ExperienceEntry `json:"experience,omitempty" validate:"dive"`
	Education  []EducationEntry  `json:"education,omitempty" validate:"dive"`
}

// ExperienceEntry is one role on a resume.
type ExperienceEntry struct {
	Title   string   `json:"title" validate:"required"`
	Company string   `json:"company" validate:"required"`
	Period  string   `json:"period,omitempty"`
	Bullets []string `json:"bullets,omitempty"`
}

// EducationEntry is one degree on a resume.
type EducationEntry struct {
	Degree string `json:"degree" validate:"required"`
	School string `json:"school" validate:"required"`
	Year   string `json:"year,omitempty"`
}

// RenderRequest asks for resume data to be rendered through a named template.
type RenderRequest struct {
	Resume   ResumeData `json:"resume"`
	Template string     `json:"template,omitempty"`
	Format   string     `json:"format,omitempty" validate:"omitempty,oneof=html pdf"`
}

// Validate validates the RenderRequest using the validator.
func (r *RenderRequest) Validate() error {
	return validate.Struct(r)
}
