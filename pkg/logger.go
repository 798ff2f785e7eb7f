package evt

type Logger interface {
	Info(message string, module string)
	Error(string)
}

type nopLogger struct{}

func (nopLogger) Info(string, string) {}
func (nopLogger) Error(string)        {}

var logger Logger = nopLogger{}

var verbosity int

// SetLogger installs the logger used by the reader and builders.
// A nil logger silences them.
func SetLogger(l Logger) {
	if l == nil {
		l = nopLogger{}
	}
	logger = l
}

// SetVerbosity controls how chatty the package is: 1 run level,
// 2 per event, 3 per row.
func SetVerbosity(level int) {
	verbosity = level
}
