package email

import "time"

// Envelope holds the parsed envelope data from an IMAP message.
type Envelope struct {
	MessageID string
	Subject   string
	From      string
	Date      time.Time
	UID       uint32
}

// ParsedMessage holds the full parsed content of an email message.
type ParsedMessage struct {
	Envelope Envelope
	TextBody string
	HTMLBody string
}

// Config holds the connection and search settings of an email source.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	TLS      bool

	// Mailbox is searched for notification mail. Defaults to INBOX.
	Mailbox string

	// From restricts the search to one sender address or domain.
	From string

	// SinceDays bounds how far back the search looks.
	SinceDays int

	// Limit caps the number of messages fetched per run, newest first.
	Limit int

	// UnseenOnly skips messages that were already read.
	UnseenOnly bool
}
