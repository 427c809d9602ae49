package models

// These structs define the payloads crossing the HTTP boundary. The handler
// decodes the multipart form into UploadedFile values and streams the
// ConversionResult back as a binary attachment.

// UploadedFile is one named binary payload from the upload form.
type UploadedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ConversionResult is the only artifact returned to the caller. It is never
// written to durable storage; it is produced and handed off in memory.
type ConversionResult struct {
	Bytes    []byte
	Filename string
}

// ErrorResponse is the JSON body returned on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
