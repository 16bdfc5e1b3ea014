package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lingohub/lingohub/internal/database/importruns"
	"github.com/lingohub/lingohub/internal/jobtracker"
)

// JobsController serves the list of active import runs to polling
// clients.
type JobsController struct {
	runs *importruns.Repository
}

func NewJobsController(runRepo *importruns.Repository) *JobsController {
	return &JobsController{runs: runRepo}
}

// ActiveJobs lists runs that have not reached a terminal state. Queued
// runs are reported under their worker job id so that a client tracking
// a dispatched job can follow it; synchronous runs fall back to the run
// id.
func (ctrl *JobsController) ActiveJobs(c *gin.Context) {
	runs, err := ctrl.runs.Active()
	if err != nil {
		respondInternalError(c, err, "list active runs")
		return
	}

	jobs := make([]jobtracker.JobInfo, 0, len(runs))
	for i := range runs {
		id := runs[i].JobID
		if id == "" {
			id = strconv.FormatUint(uint64(runs[i].ID), 10)
		}
		jobs = append(jobs, jobtracker.JobInfo{
			ID:       id,
			Progress: runs[i].Progress,
		})
	}

	c.JSON(http.StatusOK, jobs)
}
