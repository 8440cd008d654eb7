package zkscript

import (
	"github.com/privacybydesign/zkscript/expcache"
	"github.com/privacybydesign/zkscript/group"
	"github.com/privacybydesign/zkscript/sigma"
	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

func init() {
	Logger = logrus.StandardLogger()
	SetLogger(Logger)
}

// SetLogger makes all packages of the library log to l.
func SetLogger(l *logrus.Logger) {
	Logger = l
	group.Logger = l
	expcache.Logger = l
	sigma.Logger = l
}
