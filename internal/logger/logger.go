package logger

import "go.uber.org/zap"

// Log is the process-wide logger. It discards everything until Init runs,
// so packages and tests can log without setup.
var Log = zap.NewNop()

func Init(env string) {
	if env == "production" {
		Log = zap.Must(zap.NewProduction())
		return
	}
	Log = zap.Must(zap.NewDevelopment())
}

func Sugar() *zap.SugaredLogger {
	return Log.Sugar()
}
