package screening

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/jsonextract"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/utils"
	"go.uber.org/zap"
)

//go:embed prompts/jd_parser.md
var jdParserPrompt string

//go:embed prompts/resume_screening.md
var resumeScreeningPrompt string

//go:embed prompts/interview_prep.md
var interviewPrepPrompt string

const (
	// Resumes are cut to this many runes before prompting to bound the
	// prompt size. Longer documents are evaluated on their prefix only.
	maxResumeRunes = 4000

	defaultMaxLogLength = 200
)

// Pipeline runs the three screening stages against a content generator.
// Stages are failure-free by contract: a model or parse error is logged and
// replaced by the stage's fixed fallback value, so callers always receive a
// complete shape.
type Pipeline struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

// NewPipeline creates a Pipeline on top of the provided generator.
func NewPipeline(generator ai.Generator, log *zap.Logger, maxLogLength int) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Pipeline{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// ParseJobDescription extracts a JobProfile from raw job description text.
func (p *Pipeline) ParseJobDescription(ctx context.Context, jdText string) *JobProfile {
	prompt := strings.ReplaceAll(jdParserPrompt, "{{JD_TEXT}}", jdText)

	data, ok := p.generateJSON(ctx, "jd_parser", prompt)
	if !ok {
		return fallbackProfile()
	}

	return &JobProfile{
		Title:      stringOrDefault(data["title"], "Unknown Role"),
		TechSkills: coerceStringList(data["tech_skills"]),
		Experience: stringOrDefault(data["experience"], "N/A"),
		SoftSkills: coerceStringList(data["soft_skills"]),
	}
}

// ScreenResume evaluates one resume against the profile and returns a
// partial CandidateRecord (filename and status are the runner's concern).
func (p *Pipeline) ScreenResume(ctx context.Context, resumeText string, profile *JobProfile) *CandidateRecord {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		p.logger.Error("marshal job profile", zap.Error(err))
		return fallbackCandidate()
	}

	prompt := strings.ReplaceAll(resumeScreeningPrompt, "{{JOB_PROFILE}}", string(profileJSON))
	prompt = strings.ReplaceAll(prompt, "{{RESUME_TEXT}}", utils.TruncateRunes(resumeText, maxResumeRunes))

	data, ok := p.generateJSON(ctx, "resume_screening", prompt)
	if !ok {
		return fallbackCandidate()
	}

	return &CandidateRecord{
		Name:          stringOrDefault(data["name"], "Unknown Candidate"),
		Email:         stringOrDefault(data["email"], "N/A"),
		Score:         coerceScore(data["score"]),
		Analysis:      coerceString(data["analysis"]),
		MissingSkills: coerceStringList(data["missing_skills"]),
	}
}

// PrepareInterview generates an interview guide for a screened candidate.
// It returns nil when generation or parsing fails; a missing guide is a
// tolerated outcome, not an error.
func (p *Pipeline) PrepareInterview(ctx context.Context, record *CandidateRecord, profile *JobProfile) *InterviewGuide {
	title := "Role"
	if profile != nil && profile.Title != "" {
		title = profile.Title
	}

	prompt := strings.ReplaceAll(interviewPrepPrompt, "{{JOB_TITLE}}", title)
	prompt = strings.ReplaceAll(prompt, "{{ANALYSIS}}", record.Analysis)
	prompt = strings.ReplaceAll(prompt, "{{MISSING_SKILLS}}", strings.Join(record.MissingSkills, ", "))

	data, ok := p.generateJSON(ctx, "interview_prep", prompt)
	if !ok {
		return nil
	}

	return &InterviewGuide{
		TechnicalQuestions:  coerceStringList(data["technical_questions"]),
		BehavioralQuestions: coerceStringList(data["behavioral_questions"]),
		Curveball:           coerceString(data["curveball"]),
		EvaluationRubric:    coerceString(data["evaluation_rubric"]),
	}
}

// generateJSON runs one model call and decodes the response. The boolean
// result tells the stage whether to use the data or its fallback value.
func (p *Pipeline) generateJSON(ctx context.Context, stage, prompt string) (map[string]any, bool) {
	log := p.logger.With(
		zap.String("stage", stage),
		zap.String("model", p.generator.Model()),
	)

	log.Debug("generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, p.maxLogLen)),
	)

	raw, err := p.generator.GenerateContent(ctx, prompt)
	if err != nil {
		log.Warn("model call failed, using stage fallback", zap.Error(err))
		return nil, false
	}

	log.Debug("generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, p.maxLogLen)),
	)

	var data map[string]any
	if err := jsonextract.Decode(raw, &data); err != nil {
		log.Warn("malformed model response, using stage fallback",
			zap.Error(err),
			zap.String("response_preview", logger.TruncateForLog(raw, p.maxLogLen)),
		)
		return nil, false
	}

	return data, true
}
