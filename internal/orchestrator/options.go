package orchestrator

import (
	"github.com/rs/zerolog"

	"invoices/internal/logger"
	"invoices/internal/sample"
)

type options struct {
	fencing   bool
	logger    zerolog.Logger
	navigator Navigator
	sample    sample.Options
}

func defaultOptions() options {
	return options{
		logger:    logger.GetLogger(),
		navigator: BrowserNavigator{},
	}
}

// Option configures an Orchestrator.
type Option func(*options)

// WithRequestFencing makes every handler discard responses to requests that were
// superseded by a later invocation of the same operation.
func WithRequestFencing() Option {
	return func(o *options) {
		o.fencing = true
	}
}

// WithLogger sets the logger handlers derive their component loggers from.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithNavigator sets where document views are opened.
func WithNavigator(n Navigator) Option {
	return func(o *options) {
		if n != nil {
			o.navigator = n
		}
	}
}

// WithSampleID selects the legacy sample variant that carries an identifier.
func WithSampleID(withID bool) Option {
	return func(o *options) {
		o.sample.WithID = withID
	}
}
