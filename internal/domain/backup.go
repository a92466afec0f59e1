package domain

import "time"

// Artifact is the compressed dump file produced for one profile on one run.
// It is never mutated after creation; only retention or an operator removes it.
type Artifact struct {
	Profile    string    `json:"profile"`
	Filename   string    `json:"filename"`
	FilePath   string    `json:"file_path"`
	Size       int64     `json:"size"`
	Compressed bool      `json:"compressed"`
	CreatedAt  time.Time `json:"created_at"`
}

// Outcome classifies the result of one profile's backup attempt, or a whole run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeSkipped Outcome = "skipped"
)

// UploadResult records one remote replication attempt for an artifact.
type UploadResult struct {
	Target string `json:"target"`
	Error  string `json:"error,omitempty"`
}

// RunResult is the outcome of one profile within one coordinator invocation.
type RunResult struct {
	Profile    string         `json:"profile"`
	Host       string         `json:"host,omitempty"`
	Database   string         `json:"database,omitempty"`
	Outcome    Outcome        `json:"outcome"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Error      string         `json:"error,omitempty"`
	Artifact   *Artifact      `json:"artifact,omitempty"`
	Uploads    []UploadResult `json:"uploads,omitempty"`
}

// RetentionStats summarizes one retention pass over the artifact directory.
type RetentionStats struct {
	FilesChecked int      `json:"files_checked"`
	FilesRemoved int      `json:"files_removed"`
	SpaceFreed   int64    `json:"space_freed"`
	Errors       []string `json:"errors,omitempty"`
}

// RunReport aggregates all profiles processed in one invocation. The report
// is written to disk once at the end of the run so a separate status process
// can read it.
type RunReport struct {
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Outcome    Outcome         `json:"outcome"`
	Results    []RunResult     `json:"results"`
	Retention  *RetentionStats `json:"retention,omitempty"`
}

// Succeeded returns the number of successful profile backups.
func (r *RunReport) Succeeded() int { return r.count(OutcomeSuccess) }

// Failed returns the number of profile backups that did not produce an
// artifact. Skipped profiles count too: their backup did not happen.
func (r *RunReport) Failed() int { return r.count(OutcomeFailure) + r.count(OutcomeSkipped) }

func (r *RunReport) count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Finalize stamps the end time and derives the overall outcome: success iff
// every profile succeeded. An empty run is a success.
func (r *RunReport) Finalize(now time.Time) {
	r.FinishedAt = now
	r.Outcome = OutcomeSuccess
	for _, res := range r.Results {
		if res.Outcome != OutcomeSuccess {
			r.Outcome = OutcomeFailure
			return
		}
	}
}

// Duration is the wall-clock time of the whole run.
func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
