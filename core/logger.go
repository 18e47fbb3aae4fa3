package core

// Logger is the logging port used across the apps.
// args may carry errors, maps of extras and the acting usuario.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// LoggedUser identifies the acting user attached to log entries.
type LoggedUser struct {
	ID    string
	Nome  string
	Email string
}
