package session

import "github.com/sirupsen/logrus"

// LogNotifier reports failures as log entries.
type LogNotifier struct {
	Logger *logrus.Logger
}

func (n LogNotifier) Error(title, description string) {
	logger := n.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger.WithField("description", description).Error(title)
}
