package http

// Status page messages.
const (
	MsgReady              = "Image upload server ready"
	MsgAccepted           = "Image accepted"
	MsgInvalidToken       = "Missing or invalid upload token"
	MsgInvalidCredentials = "Missing or invalid credentials"
	MsgContentType        = "Unexpected content type"
	MsgMethodNotAllowed   = "Request method not allowed"
	MsgTooLarge           = "Image too large"
	MsgUploadError        = "error uploading file"
)
