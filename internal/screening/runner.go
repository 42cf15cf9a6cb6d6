package screening

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spigell/talentscout/internal/utils"
	"go.uber.org/zap"
)

// Runner executes one batch: the job description is parsed once, then every
// resume is screened sequentially against the resulting profile. Candidates
// at or above the threshold get an interview guide and the Shortlisted
// status. A failure inside one resume never aborts the batch; that record
// is dropped and the run continues.
type Runner struct {
	pipeline  *Pipeline
	threshold int
	pause     time.Duration
	logger    *zap.Logger
}

// NewRunner creates a Runner. The threshold is clamped to [0, 100]. Pause
// is an optional delay between resumes; zero disables it.
func NewRunner(pipeline *Pipeline, threshold int, pause time.Duration, log *zap.Logger) *Runner {
	if threshold < 0 {
		threshold = 0
	}
	if threshold > 100 {
		threshold = 100
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Runner{
		pipeline:  pipeline,
		threshold: threshold,
		pause:     pause,
		logger:    log,
	}
}

// Run processes the batch and returns one record per successfully screened
// resume, in input order.
func (r *Runner) Run(ctx context.Context, jdText string, resumes []Resume) *Result {
	runID := uuid.NewString()
	log := r.logger.With(zap.String("run_id", runID))

	log.Info("parsing job description")
	profile := r.pipeline.ParseJobDescription(ctx, jdText)
	log.Info("job description parsed",
		zap.String("title", profile.Title),
		zap.Strings("tech_skills", profile.TechSkills),
	)

	candidates := make([]*CandidateRecord, 0, len(resumes))
	for i, resume := range resumes {
		log.Info("processing resume",
			zap.Int("position", i+1),
			zap.Int("total", len(resumes)),
			zap.String("filename", resume.Filename),
		)

		if record := r.processResume(ctx, resume, profile, log); record != nil {
			candidates = append(candidates, record)
		}

		if i < len(resumes)-1 {
			if err := utils.WaitFor(ctx, r.pause); err != nil {
				log.Debug("pause between resumes interrupted", zap.Error(err))
			}
		}
	}

	log.Info("batch completed",
		zap.Int("resumes", len(resumes)),
		zap.Int("records", len(candidates)),
	)

	return &Result{RunID: runID, Profile: profile, Candidates: candidates}
}

// Threshold returns the effective minimum score for shortlisting.
func (r *Runner) Threshold() int {
	return r.threshold
}

// processResume runs the screening and optional interview-prep stages for a
// single resume. A panic anywhere inside is contained here: the resume is
// skipped and the batch keeps going.
func (r *Runner) processResume(ctx context.Context, resume Resume, profile *JobProfile, log *zap.Logger) (record *CandidateRecord) {
	defer func() {
		if cause := recover(); cause != nil {
			log.Error("resume processing failed, skipping",
				zap.String("filename", resume.Filename),
				zap.Any("cause", cause),
			)
			record = nil
		}
	}()

	record = r.pipeline.ScreenResume(ctx, resume.Text, profile)
	record.Filename = resume.Filename

	if record.Score >= r.threshold {
		record.Status = StatusShortlisted
		record.Guide = r.pipeline.PrepareInterview(ctx, record, profile)

		log.Info("candidate shortlisted",
			zap.String("filename", resume.Filename),
			zap.String("name", record.Name),
			zap.Int("score", record.Score),
			zap.Bool("guide_generated", record.Guide != nil),
		)

		return record
	}

	record.Status = StatusRejected
	log.Info("candidate rejected",
		zap.String("filename", resume.Filename),
		zap.String("name", record.Name),
		zap.Int("score", record.Score),
		zap.Int("threshold", r.threshold),
	)

	return record
}
