package email

// SendRequest is a single outbound notification
type SendRequest struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}
