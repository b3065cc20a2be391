package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger; BootstrapLogger must run before any
// package uses it. Tests assign a plain logrus.New() instead.
var Log *logrus.Logger

func BootstrapLogger() {
	Log = logrus.New()
	Log.SetFormatter(&logrus.TextFormatter{})
	Log.SetLevel(logrus.DebugLevel)
	Log.SetReportCaller(true)
	Log.SetOutput(os.Stdout)
}
