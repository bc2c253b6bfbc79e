package domain

import "time"

// TicketComment is a reply or internal note on a ticket thread. Only
// non-internal comments are customer-visible and only the first of those
// counts toward the first-response SLA.
type TicketComment struct {
	ID         string
	TicketID   string
	UserID     string
	Content    string
	IsInternal bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TicketAttachment stores file metadata for a ticket or one of its
// comments. The bytes themselves live in external object storage.
type TicketAttachment struct {
	ID         string
	TicketID   string
	CommentID  *string
	FileName   string
	FileKey    string
	FileSize   int64
	MimeType   string
	UploadedBy string
	CreatedAt  time.Time
}

// TicketTag labels a ticket for filtering.
type TicketTag struct {
	ID        string
	TicketID  string
	Tag       string
	CreatedAt time.Time
}
