// sentiric-contacts-service/internal/logger/events.go
package logger

// SUTS v4.0 Standard Event IDs for contacts-service
const (
	EventSystemStartup      = "SYSTEM_STARTUP"
	EventSystemShutdown     = "SYSTEM_SHUTDOWN"
	EventHTTPRequest        = "HTTP_REQUEST_RECEIVED"
	EventContactsReloaded   = "CONTACTS_RELOADED"
	EventContactsLoadFailed = "CONTACTS_LOAD_FAILED"
	EventPermissionDenied   = "CONTACTS_PERMISSION_DENIED"
	EventContactCreated     = "CONTACT_CREATED"
	EventContactUpdated     = "CONTACT_UPDATED"
	EventContactDeleted     = "CONTACT_DELETED"
	EventContactWriteFailed = "CONTACT_WRITE_FAILED"
	EventValidationFailed   = "CONTACT_VALIDATION_FAILED"
	EventFavoriteToggled    = "FAVORITE_TOGGLED"
	EventGroupCreated       = "GROUP_CREATED"
	EventGroupUpdated       = "GROUP_UPDATED"
	EventGroupDeleted       = "GROUP_DELETED"
	EventCallIncoming       = "CALL_INCOMING"
	EventCallStarted        = "CALL_STARTED"
	EventCallConnected      = "CALL_CONNECTED"
	EventCallDialFailed     = "CALL_DIAL_FAILED"
	EventCallEnded          = "CALL_ENDED"
	EventDialerOpened       = "DIALER_URL_OPENED"
	EventThemeChanged       = "THEME_CHANGED"
	EventStoreChanged       = "STORE_CHANGED"
)
