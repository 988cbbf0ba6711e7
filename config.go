package ted

import (
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/nivir/ted/tolerance"
	"github.com/nivir/ted/volume"
)

// Config controls one Evaluate run (spec.md §6).
type Config struct {
	// ToleranceDistanceThreshold is T, in nanometers: the maximum boundary
	// shift a cell may be relabeled across (spec.md §4.3). Zero means
	// exact matching only.
	ToleranceDistanceThreshold float64 `validate:"gte=0"`

	// Pitch is the physical voxel spacing shared by gt and rec. Evaluate
	// uses it for the distance transforms in place of rec's own Pitch.
	Pitch volume.Pitch `validate:"required"`

	// GtBackgroundLabel and RecBackgroundLabel identify the background
	// label in each volume. Evaluate and the core ILP do not read them;
	// the peripheral result.ScanLocations post-processing (spec.md §4.6
	// note) takes its background labels as arguments.
	GtBackgroundLabel  float64
	RecBackgroundLabel float64

	// MaxWorkers bounds the tolerance enumerator's concurrent per-rec-label
	// distance transforms (spec.md §5). 0 uses tolerance.DefaultMaxWorkers;
	// negative values fail Validate.
	MaxWorkers int `validate:"gte=0"`
}

// DefaultConfig returns a Config with zero tolerance (exact matching
// only), the default pitch, background label 0, and the default worker
// cap. spec.md §6 documents 100nm as the default threshold; this
// constructor deliberately defaults to 0 instead, so that a caller who
// forgets to set a threshold gets the strict, unsurprising comparison
// rather than a silently tolerant one (see DESIGN.md).
func DefaultConfig() Config {
	return Config{
		ToleranceDistanceThreshold: 0,
		Pitch:                      volume.DefaultPitch(),
		GtBackgroundLabel:          0,
		RecBackgroundLabel:         0,
		MaxWorkers:                 tolerance.DefaultMaxWorkers,
	}
}

var (
	validatorOnce   sync.Once
	structValidator *validator.Validate
)

// configValidator returns the package-wide validator singleton, built
// once and reused across every Evaluate call.
func configValidator() *validator.Validate {
	validatorOnce.Do(func() {
		structValidator = validator.New()
	})
	return structValidator
}

// Validate checks cfg against its struct tags, wrapping any violation in
// a ConfigError rather than letting it surface as a raw validator error
// deep in the pipeline.
func (cfg Config) Validate() error {
	if err := configValidator().Struct(cfg); err != nil {
		return &ConfigError{cause: err}
	}
	return nil
}
