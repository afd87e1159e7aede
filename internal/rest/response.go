package rest

// ResponseError is the minimal error payload shape.
type ResponseError struct {
	Message string `json:"message"`
}
