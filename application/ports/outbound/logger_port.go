package outbound

type LoggerPort interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(err error, msg string, fields map[string]interface{})
}
