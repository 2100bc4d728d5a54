package api

// ErrorResponse is the plain error envelope the API returns for
// not-found, forbidden and server errors.
type ErrorResponse struct {
	Message string `json:"message" example:"Spot couldn't be found"`
}

// ValidationErrorResponse carries a field→message map alongside the
// top-level message, matching the shape clients already parse.
type ValidationErrorResponse struct {
	Message string            `json:"message" example:"Bad Request"`
	Errors  map[string]string `json:"errors"`
}

type MessageResponse struct {
	Message string `json:"message" example:"Successfully deleted"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
