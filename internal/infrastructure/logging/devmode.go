package logging

// DevLogger forwards messages to a sink only while dev mode is on.
// The predicate is evaluated on every call so toggling dev mode takes effect immediately.
type DevLogger struct {
	sink    Logger
	enabled func() bool
}

// NewDevLogger creates a DevLogger. A nil predicate means dev mode is always off.
func NewDevLogger(sink Logger, enabled func() bool) *DevLogger {
	if sink == nil {
		sink = NewDefaultLogger()
	}
	return &DevLogger{sink: sink, enabled: enabled}
}

// Enabled reports whether messages are currently forwarded
func (d *DevLogger) Enabled() bool {
	return d != nil && d.enabled != nil && d.enabled()
}

// Log emits msg at info level when dev mode is on
func (d *DevLogger) Log(msg string, fields ...interface{}) {
	if !d.Enabled() {
		return
	}
	d.sink.Info(msg, fields...)
}

// Debug forwards to the sink at debug level when dev mode is on
func (d *DevLogger) Debug(msg string, fields ...interface{}) {
	if d.Enabled() {
		d.sink.Debug(msg, fields...)
	}
}

// Info is Log
func (d *DevLogger) Info(msg string, fields ...interface{}) {
	d.Log(msg, fields...)
}

// Warn forwards to the sink at warn level when dev mode is on
func (d *DevLogger) Warn(msg string, fields ...interface{}) {
	if d.Enabled() {
		d.sink.Warn(msg, fields...)
	}
}

// Error always reaches the sink; failures are reported whatever the dev mode
func (d *DevLogger) Error(msg string, fields ...interface{}) {
	if d == nil {
		return
	}
	d.sink.Error(msg, fields...)
}

var _ Logger = (*DevLogger)(nil)
