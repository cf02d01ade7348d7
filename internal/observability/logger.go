package observability

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component returns the global logger tagged with the owning component and animus.
func Component(component, animus string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Str("animus", animus).Logger()
}
