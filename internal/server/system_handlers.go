package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/alphacapital/riskengine/internal/modules/analysis"
	"github.com/alphacapital/riskengine/internal/modules/marketdata"
	"github.com/alphacapital/riskengine/internal/modules/universe"
	"github.com/alphacapital/riskengine/internal/scheduler"
)

// SystemHandlers serves system-wide monitoring endpoints.
type SystemHandlers struct {
	log          zerolog.Logger
	startedAt    time.Time
	universeRepo *universe.Repository
	historyRepo  *marketdata.Repository
	analysisRepo *analysis.Repository
	scheduler    *scheduler.Scheduler
}

// NewSystemHandlers creates a new system handlers instance.
func NewSystemHandlers(
	log zerolog.Logger,
	universeRepo *universe.Repository,
	historyRepo *marketdata.Repository,
	analysisRepo *analysis.Repository,
	sched *scheduler.Scheduler,
) *SystemHandlers {
	return &SystemHandlers{
		log:          log.With().Str("component", "system_handlers").Logger(),
		startedAt:    time.Now(),
		universeRepo: universeRepo,
		historyRepo:  historyRepo,
		analysisRepo: analysisRepo,
		scheduler:    sched,
	}
}

// SystemStatusResponse represents the system status response.
type SystemStatusResponse struct {
	SecurityCount    int                 `json:"security_count"`
	ReturnSeriesRows int                 `json:"return_series_rows"`
	AnalysisCount    int                 `json:"analysis_count"`
	LastAnalysis     string              `json:"last_analysis,omitempty"`
	Jobs             []scheduler.JobInfo `json:"jobs"`
	UptimeSeconds    float64             `json:"uptime_seconds"`
	Goroutines       int                 `json:"goroutines"`
	CPUPercent       float64             `json:"cpu_percent"`
	RAMPercent       float64             `json:"ram_percent"`
}

// HandleSystemStatus returns engine status plus host resource usage.
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	response := SystemStatusResponse{
		Jobs:          h.scheduler.Jobs(),
		UptimeSeconds: time.Since(h.startedAt).Seconds(),
		Goroutines:    runtime.NumGoroutine(),
	}

	if count, err := h.universeRepo.Count(); err == nil {
		response.SecurityCount = count
	} else {
		h.log.Error().Err(err).Msg("Failed to count securities")
	}

	if count, err := h.historyRepo.Count(); err == nil {
		response.ReturnSeriesRows = count
	} else {
		h.log.Error().Err(err).Msg("Failed to count return series")
	}

	if count, err := h.analysisRepo.Count(); err == nil {
		response.AnalysisCount = count
	} else {
		h.log.Error().Err(err).Msg("Failed to count analyses")
	}

	if latest, err := h.analysisRepo.GetLatest(); err == nil && latest != nil {
		response.LastAnalysis = latest.CreatedAt.Format(time.RFC3339)
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		response.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		response.RAMPercent = vm.UsedPercent
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
