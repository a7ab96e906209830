package service

// Notifier pushes directory change events to connected dashboard clients.
// Implemented by the websocket hub; nil disables notifications (tests).
type Notifier interface {
	NotifyDirectoryChange(entity, action, id string)
}

func notify(n Notifier, entity, action, id string) {
	if n != nil {
		n.NotifyDirectoryChange(entity, action, id)
	}
}
