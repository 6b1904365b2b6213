package handler

// Response is the envelope every endpoint returns: status is "success" or
// "error", message carries the error text, data the payload. The 409
// scheduling branches (confirmation_required, restore_rejected) use the same
// shape with their own status values.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{Status: "success", Data: data}
}

func NewErrorResponse(message string) *Response {
	return &Response{Status: "error", Message: message}
}
