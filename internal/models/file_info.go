package models

// FileInfo represents metadata about an uploaded document.
type FileInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	ContentType string `json:"type"`
}

// UploadResponse is the envelope returned to the browser after a successful upload.
type UploadResponse struct {
	Success bool      `json:"success"`
	File    *FileInfo `json:"file"`
}
