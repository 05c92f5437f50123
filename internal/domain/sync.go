package domain

// SyncReport summarizes one run of the Git corpus sync job.
type SyncReport struct {
	Commit    string `json:"commit"`
	Created   int    `json:"created"`
	Updated   int    `json:"updated"`
	Deleted   int    `json:"deleted"`
	Unchanged int    `json:"unchanged"`
}

// Total returns the number of files considered during the run.
func (r SyncReport) Total() int {
	return r.Created + r.Updated + r.Deleted + r.Unchanged
}
