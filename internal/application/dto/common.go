package dto

// PageRequest pagination for listings.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage applies defaults when Limit/Offset are unset.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse page metadata in responses.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse HTTP error body. Details carries structured context for
// errors that have it (stock shortages, completed workflow steps).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
