package notification

import "fmt"

// Templates renders the ticket lifecycle emails. PortalURL points the
// requester at the self-service portal.
type Templates struct {
	PortalURL string
}

// TicketCreated renders the confirmation sent to the requester.
func (t Templates) TicketCreated(ticketNumber, subject, requesterName, requesterEmail, priority string) Message {
	greeting := requesterName
	if greeting == "" {
		greeting = "there"
	}
	return Message{
		To:      requesterEmail,
		Subject: fmt.Sprintf("Ticket Created: %s - %s", ticketNumber, subject),
		HTMLBody: fmt.Sprintf(
			"<h2>Your support ticket has been created</h2>"+
				"<p>Hello %s,</p>"+
				"<p>We've received your support request and created ticket <strong>%s</strong>.</p>"+
				"<p><strong>Subject:</strong> %s</p>"+
				"<p><strong>Priority:</strong> %s</p>"+
				"<p>Our support team will review your ticket and get back to you soon.</p>"+
				`<p>You can track your ticket status at: <a href="%s">Support Portal</a></p>`,
			greeting, ticketNumber, subject, priority, t.PortalURL),
		TextBody: fmt.Sprintf(
			"Your support ticket has been created\n\nTicket Number: %s\nSubject: %s\nPriority: %s\n\nOur support team will review your ticket and get back to you soon.\n",
			ticketNumber, subject, priority),
	}
}

// TicketUpdated renders the status-change note to the requester.
func (t Templates) TicketUpdated(ticketNumber, subject, status, requesterEmail string) Message {
	return Message{
		To:      requesterEmail,
		Subject: fmt.Sprintf("Ticket Updated: %s", ticketNumber),
		HTMLBody: fmt.Sprintf(
			"<h2>Your ticket has been updated</h2>"+
				"<p>Ticket <strong>%s</strong> status has been updated to <strong>%s</strong>.</p>"+
				"<p><strong>Subject:</strong> %s</p>"+
				`<p>View your ticket: <a href="%s">Support Portal</a></p>`,
			ticketNumber, status, subject, t.PortalURL),
	}
}

// TicketResolved renders the resolution note to the requester.
func (t Templates) TicketResolved(ticketNumber, subject, requesterEmail string) Message {
	return Message{
		To:      requesterEmail,
		Subject: fmt.Sprintf("Ticket Resolved: %s", ticketNumber),
		HTMLBody: fmt.Sprintf(
			"<h2>Your ticket has been resolved</h2>"+
				"<p>Ticket <strong>%s</strong> has been marked as resolved.</p>"+
				"<p><strong>Subject:</strong> %s</p>"+
				"<p>Thank you for contacting us. If you need further assistance, please reply to this email or create a new ticket.</p>",
			ticketNumber, subject),
	}
}

// TicketAssigned renders the hand-off note to the new assignee.
func (t Templates) TicketAssigned(ticketNumber, subject, assigneeEmail string) Message {
	return Message{
		To:      assigneeEmail,
		Subject: fmt.Sprintf("Ticket Assigned: %s", ticketNumber),
		HTMLBody: fmt.Sprintf(
			"<h2>New ticket assigned to you</h2>"+
				"<p>You've been assigned to ticket <strong>%s</strong>.</p>"+
				"<p><strong>Subject:</strong> %s</p>"+
				"<p>Please review and respond to this ticket.</p>",
			ticketNumber, subject),
	}
}
