// Package logging wraps gologger with policyscout-flavored labeled
// helpers, the way stormfinder's pkg/runner/logger.go wraps it with
// LogAI/LogCT/LogSocial for its own subsystems.
package logging

import (
	"fmt"

	"github.com/projectdiscovery/gologger"
)

func LogIdentifier(format string, args ...interface{}) {
	gologger.Info().Msgf("🔎 %s", fmt.Sprintf(format, args...))
}

func LogOrchestrator(format string, args ...interface{}) {
	gologger.Info().Msgf("🧭 %s", fmt.Sprintf(format, args...))
}

func LogStrategy(name, format string, args ...interface{}) {
	gologger.Verbose().Label(name).Msg(fmt.Sprintf(format, args...))
}

func LogDeepScan(format string, args ...interface{}) {
	gologger.Verbose().Msgf("🕳️  %s", fmt.Sprintf(format, args...))
}

func LogValidator(format string, args ...interface{}) {
	gologger.Verbose().Msgf("🧪 %s", fmt.Sprintf(format, args...))
}

func LogNeural(format string, args ...interface{}) {
	gologger.Verbose().Msgf("🧠 %s", fmt.Sprintf(format, args...))
}

func LogRateLimit(format string, args ...interface{}) {
	gologger.Debug().Msgf("⏳ %s", fmt.Sprintf(format, args...))
}

func LogWarn(format string, args ...interface{}) {
	gologger.Warning().Msgf(format, args...)
}

func LogError(format string, args ...interface{}) {
	gologger.Error().Msgf(format, args...)
}
