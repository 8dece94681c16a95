package response

type StandardApiResponse struct {
	Status     string      `json:"status"`           // "success" or "error"
	StatusCode int         `json:"status_code"`      // HTTP status code
	Message    string      `json:"message"`          // Human-readable message
	Data       interface{} `json:"data,omitempty"`   // Payload for success
	Errors     interface{} `json:"errors,omitempty"` // Validation or error details
}

// ErrorDetail lets clients branch on the rejection kind instead of the message.
type ErrorDetail struct {
	Code      string `json:"code"`
	Retryable bool   `json:"retryable"`
}

// Page wraps a paginated list.
type Page struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

func NewPage(items interface{}, total int64, page, limit int) Page {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Page{Items: items, Total: total, Page: page, Limit: limit, TotalPages: pages}
}
