package models

// Upload is one document received with an analysis request.
type Upload struct {
	Filename string
	Data     []byte
}

// ResumeInput carries one resume through the scoring pipeline.
type ResumeInput struct {
	Filename    string
	StagedPath  string
	RawText     string
	CleanedText string
	// RawPayload is only set when CleanedText came back empty.
	RawPayload  []byte
	Fingerprint string
}
