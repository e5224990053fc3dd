package models

// AnalysisReport is returned for a successfully processed batch.
type AnalysisReport struct {
	JobToken               string            `json:"job_token"`
	Results                []ScoreResult     `json:"results"`
	JobProfile             JobProfile        `json:"job_profile"`
	JobDescriptionSections map[string]string `json:"job_description_sections"`
}

type ProgressResponse struct {
	JobToken        string    `json:"job_token"`
	CurrentFilename string    `json:"current_filename"`
	ProcessedCount  int       `json:"processed_count"`
	TotalCount      int       `json:"total_count"`
	Done            bool      `json:"done"`
	Status          JobStatus `json:"status"`
	Error           string    `json:"error,omitempty"`
}

func NewProgressResponse(job *AnalysisJob) ProgressResponse {
	return ProgressResponse{
		JobToken:        job.JobToken,
		CurrentFilename: job.CurrentFilename,
		ProcessedCount:  job.Processed,
		TotalCount:      job.Total,
		Done:            job.Done,
		Status:          job.Status,
		Error:           job.Error,
	}
}

type ErrorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code,omitempty"`
	JobToken string `json:"job_token,omitempty"`
}
