package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the process logger at the given level. Unparseable levels fall
// back to info.
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.Formatter = new(logrus.TextFormatter)
	log.Out = os.Stdout

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.Level = lvl
	return log
}
