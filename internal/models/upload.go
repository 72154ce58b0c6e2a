package models

// Upload records that a user uploaded a file. The bytes are not kept.
type Upload struct {
	Username string `json:"username"`
	Filename string `json:"filename"`
}

// UploadReceipt is shown to the uploader once and never persisted
type UploadReceipt struct {
	Filename    string `json:"filename"`
	Size        int64  `json:"size_bytes"`
	ContentType string `json:"content_type"`
	Preview     string `json:"preview,omitempty"`
	Truncated   bool   `json:"truncated,omitempty"`
}
