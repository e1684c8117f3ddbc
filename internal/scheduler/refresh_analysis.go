package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/alphacapital/riskengine/internal/modules/analysis"
)

// RefreshAnalysisJob re-runs the full portfolio analysis so the stored
// latest result stays current.
type RefreshAnalysisJob struct {
	service *analysis.Service
	log     zerolog.Logger
}

// NewRefreshAnalysisJob creates the analysis refresh job.
func NewRefreshAnalysisJob(service *analysis.Service, log zerolog.Logger) *RefreshAnalysisJob {
	return &RefreshAnalysisJob{
		service: service,
		log:     log.With().Str("job", "refresh_analysis").Logger(),
	}
}

// Name returns the job name.
func (j *RefreshAnalysisJob) Name() string {
	return "refresh_analysis"
}

// Run executes one analysis.
func (j *RefreshAnalysisJob) Run() error {
	result, err := j.service.Run()
	if err != nil {
		return err
	}

	j.log.Info().
		Str("id", result.ID).
		Bool("optimizer_converged", result.OptimizerConverged).
		Msg("Scheduled analysis refreshed")
	return nil
}
