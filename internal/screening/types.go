package screening

// Status classifies a candidate against the configured score threshold.
type Status string

const (
	StatusShortlisted Status = "Shortlisted"
	StatusRejected    Status = "Rejected"
)

// JobProfile is the structured extraction of a job description. It is
// produced once per run and read-only afterwards.
type JobProfile struct {
	Title      string   `json:"title"`
	TechSkills []string `json:"tech_skills"`
	Experience string   `json:"experience"`
	SoftSkills []string `json:"soft_skills"`
}

// CandidateRecord is the evaluation result for a single resume. All base
// fields are always populated, either from the model response or from stage
// fallbacks, so consumers never deal with missing keys. Guide is present
// only for shortlisted candidates whose interview prep succeeded.
type CandidateRecord struct {
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Score         int             `json:"score"`
	Analysis      string          `json:"analysis"`
	MissingSkills []string        `json:"missing_skills"`
	Filename      string          `json:"filename"`
	Status        Status          `json:"status"`
	Guide         *InterviewGuide `json:"interview_guide,omitempty"`
}

// InterviewGuide holds the generated interview material for a shortlisted
// candidate.
type InterviewGuide struct {
	TechnicalQuestions  []string `json:"technical_questions"`
	BehavioralQuestions []string `json:"behavioral_questions"`
	Curveball           string   `json:"curveball"`
	EvaluationRubric    string   `json:"evaluation_rubric"`
}

// Resume is one input document, already reduced to plain text by the
// extraction layer.
type Resume struct {
	Filename string
	Text     string
}

// Result is the complete outcome of one batch run.
type Result struct {
	RunID      string             `json:"run_id"`
	Profile    *JobProfile        `json:"job_profile"`
	Candidates []*CandidateRecord `json:"candidates"`
}

// Shortlisted returns the candidates that passed the threshold, preserving
// their relative order.
func (r *Result) Shortlisted() []*CandidateRecord {
	shortlisted := make([]*CandidateRecord, 0, len(r.Candidates))
	for _, candidate := range r.Candidates {
		if candidate.Status == StatusShortlisted {
			shortlisted = append(shortlisted, candidate)
		}
	}
	return shortlisted
}

func fallbackProfile() *JobProfile {
	return &JobProfile{
		Title:      "Unknown Role",
		TechSkills: []string{},
		Experience: "N/A",
		SoftSkills: []string{},
	}
}

func fallbackCandidate() *CandidateRecord {
	return &CandidateRecord{
		Name:          "Unknown Candidate",
		Email:         "N/A",
		Score:         0,
		Analysis:      "AI Processing Failed",
		MissingSkills: []string{},
	}
}
