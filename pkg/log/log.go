package log

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

func init() {
	logger.Formatter = &logrus.TextFormatter{
		TimestampFormat: time.RFC3339,
		FullTimestamp:   true,
		DisableColors:   false,
		ForceColors:     true,
	}
}

func Print(c *fiber.Ctx) *logrus.Entry {
	if c == nil {
		return logger.WithFields(logrus.Fields{})
	}

	remoteIP := c.IP()
	if v := c.Locals("remote_ip"); v != nil {
		if ip, ok := v.(string); ok && ip != "" {
			remoteIP = ip
		}
	}
	return logger.WithFields(logrus.Fields{
		"remote_ip": remoteIP,
		"method":    c.Method(),
		"uri":       c.OriginalURL(),
	})
}

// ShotOp returns an entry scoped to a campaign operation for a user session.
func ShotOp(userID string, op string) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"user": userID,
		"op":   op,
	})
}

// UpstreamOp returns an entry scoped to a call against the messaging backend.
func UpstreamOp(method string, path string) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"upstream_method": method,
		"upstream_path":   path,
	})
}
