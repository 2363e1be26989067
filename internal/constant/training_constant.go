package constant

const (
	TrainingCategorySystemPrompts = "System Prompts"

	// Upper bound for uploaded files, 50 MB.
	DefaultUploadMaxBytes = 50 * 1024 * 1024

	UploadDirectory = "uploads"
)

// AllowedUploadExtensions lists the file types accepted by the upload endpoints.
var AllowedUploadExtensions = []string{
	".pdf", ".doc", ".docx", ".txt", ".md", ".html", ".htm",
	".jpg", ".jpeg", ".png", ".gif", ".webp",
	".mp4", ".avi", ".mov", ".wmv",
	".ppt", ".pptx", ".xls", ".xlsx",
}
