package worker

import (
	"github.com/aryaminakshi71/helpdesk/internal/events"
	"github.com/aryaminakshi71/helpdesk/internal/notification"
)

// StartNotificationWorker registers notification handlers on the dispatcher.
func StartNotificationWorker(notificationService *notification.Service, dispatcher events.Dispatcher) {
	if notificationService == nil || dispatcher == nil {
		return
	}
	notificationService.RegisterHandlers(dispatcher)
}
