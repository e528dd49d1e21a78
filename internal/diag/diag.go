// Package diag carries the messages the validation layers report back through the driver.
package diag

import (
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
)

type Message struct {
	Severity ext_debug_utils.DebugUtilsMessageSeverityFlags
	Type     ext_debug_utils.DebugUtilsMessageTypeFlags
	Text     string
}

// Handler receives driver diagnostics. The return value tells the driver whether to abort the call
// that triggered the message.
type Handler interface {
	HandleMessage(msg Message) bool
}

// Sink logs every message and never aborts.
type Sink struct {
	Log *logrus.Entry
}

func NewSink(log *logrus.Entry) *Sink {
	return &Sink{Log: log.WithField("source", "validation")}
}

func (s *Sink) HandleMessage(msg Message) bool {
	entry := s.Log.WithField("type", msg.Type.String())
	entry.Log(Level(msg.Severity), msg.Text)
	return false
}

// Level maps a driver severity onto a log level, taking the most severe bit that is set.
func Level(severity ext_debug_utils.DebugUtilsMessageSeverityFlags) logrus.Level {
	switch {
	case severity&ext_debug_utils.SeverityError != 0:
		return logrus.ErrorLevel
	case severity&ext_debug_utils.SeverityWarning != 0:
		return logrus.WarnLevel
	case severity&ext_debug_utils.SeverityInfo != 0:
		return logrus.InfoLevel
	default:
		return logrus.DebugLevel
	}
}
