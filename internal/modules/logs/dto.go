package logs

// ClientLogRequest is a log record reported by the mobile front end.
type ClientLogRequest struct {
	Timestamp    string `json:"timestamp"`
	Level        string `json:"level" binding:"required,oneof=debug info warn error"`
	Message      string `json:"message" binding:"required"`
	URL          string `json:"url"`
	UserAgent    string `json:"userAgent"`
	ErrorName    string `json:"errorName"`
	ErrorMessage string `json:"errorMessage"`
}
