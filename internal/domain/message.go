package domain

// Chat message discriminants. A text message carries free text in its
// body; a file message carries the retrieval URL of a stored artifact.
const (
	MessageKindText = "text"
	MessageKindFile = "file"
)

// SystemSender is the reserved sender name for broker-generated notices.
const SystemSender = "System"
