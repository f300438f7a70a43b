package embedding

import (
	"fmt"
	"runtime"

	"github.com/sanonone/dimembed/pkg/core/distance"
)

// DefaultDimensions is the pivot count used when none is configured.
const DefaultDimensions = 5

type options struct {
	dimensions     int
	typeDimensions map[string]int
	strategy       PivotStrategy
	metric         distance.DistanceMetric
	workers        int
	logger         *Logger
}

func defaultOptions() options {
	return options{
		dimensions:     DefaultDimensions,
		typeDimensions: make(map[string]int),
		strategy:       FarthestFirst,
		metric:         distance.Euclidean,
		workers:        runtime.GOMAXPROCS(0),
	}
}

// Option configures an Engine.
type Option func(*options)

// WithDimensions sets the number of pivots requested for every edge type.
func WithDimensions(k int) Option {
	return func(o *options) {
		o.dimensions = k
	}
}

// WithTypeDimensions overrides the pivot count for a single edge type.
func WithTypeDimensions(edgeType string, k int) Option {
	return func(o *options) {
		o.typeDimensions[edgeType] = k
	}
}

// WithPivotStrategy selects how pivots are chosen. Default: FarthestFirst.
func WithPivotStrategy(s PivotStrategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithMetric selects the vector distance used by Distance. Default: Euclidean.
func WithMetric(m distance.DistanceMetric) Option {
	return func(o *options) {
		o.metric = m
	}
}

// WithWorkers bounds the number of goroutines computing vectors during Embed.
// Values below 1 mean one worker.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.workers = n
	}
}

// WithLogger sets the logger. If nil is passed, a default text logger is used.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func (o *options) validate() error {
	if o.dimensions <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDimension, o.dimensions)
	}
	for t, k := range o.typeDimensions {
		if k <= 0 {
			return fmt.Errorf("%w: %d for edge type %q", ErrInvalidDimension, k, t)
		}
	}
	if _, err := ParsePivotStrategy(string(o.strategy)); err != nil {
		return err
	}
	if _, err := distance.GetFunc(o.metric); err != nil {
		return err
	}
	return nil
}

func (o *options) dimensionsFor(edgeType string) int {
	if k, ok := o.typeDimensions[edgeType]; ok {
		return k
	}
	return o.dimensions
}
