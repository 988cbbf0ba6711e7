package ted

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nivir/ted/cell"
	"github.com/nivir/ted/ilp"
	"github.com/nivir/ted/result"
	"github.com/nivir/ted/solver"
	"github.com/nivir/ted/tolerance"
	"github.com/nivir/ted/volume"
)

// Evaluate runs the full TED pipeline once: cell extraction, tolerance
// enumeration, ILP construction, exact solving, and result extraction
// (spec.md §2 data flow). It is a pure function — no package-level
// mutable state carries over between calls (spec.md §3 Lifecycle).
//
// gt and rec must share the same dimensions (checked by cell.Extract,
// surfaced here as ErrSizeMismatch). cfg is validated before any pipeline
// stage runs.
func Evaluate(ctx context.Context, gt, rec *volume.Volume, cfg Config) (result.Errors, *volume.Volume, error) {
	if err := cfg.Validate(); err != nil {
		return result.Errors{}, nil, err
	}

	runID := uuid.New().String()
	logger := log.With().Str("run_id", runID).Logger()
	start := time.Now()

	col, err := cell.Extract(gt, rec)
	if err != nil {
		logger.Error().Err(err).Msg("cell extraction failed")
		return result.Errors{}, nil, err
	}
	logger.Debug().
		Int("cells", len(col.Cells)).
		Int("gt_labels", len(col.GTLabels)).
		Int("rec_labels", len(col.RecLabels)).
		Dur("elapsed", time.Since(start)).
		Msg("cell extraction complete")

	toleranceStart := time.Now()
	// The distance transforms use cfg.Pitch, not the pitch rec carries.
	pitched := *rec
	pitched.Pitch = cfg.Pitch
	if err := tolerance.Enumerate(ctx, col, &pitched, cfg.ToleranceDistanceThreshold, cfg.MaxWorkers); err != nil {
		logger.Error().Err(err).Msg("tolerance enumeration failed")
		return result.Errors{}, nil, err
	}
	logger.Debug().
		Int("possible_matches", len(col.Matches.Pairs())).
		Dur("elapsed", time.Since(toleranceStart)).
		Msg("tolerance enumeration complete")

	buildStart := time.Now()
	problem, err := ilp.Build(col)
	if err != nil {
		logger.Error().Err(err).Msg("ilp construction failed")
		return result.Errors{}, nil, err
	}
	logger.Debug().
		Int("variables", problem.NumVariables()).
		Int("constraints", len(problem.Constraints)).
		Dur("elapsed", time.Since(buildStart)).
		Msg("ilp construction complete")

	solveStart := time.Now()
	sol, err := solver.NewBranchAndBound().Solve(ctx, problem)
	if err != nil {
		logger.Error().Err(err).Msg("solve failed")
		return result.Errors{}, nil, err
	}
	logger.Debug().
		Float64("objective", sol.Objective).
		Dur("elapsed", time.Since(solveStart)).
		Msg("solve complete")

	errs, corrected, err := result.Extract(problem, sol, rec)
	if err != nil {
		logger.Error().Err(err).Msg("result extraction failed")
		return result.Errors{}, nil, err
	}

	logger.Info().
		Int("splits", errs.Splits).
		Int("merges", errs.Merges).
		Dur("elapsed", time.Since(start)).
		Msg("evaluate complete")

	return errs, corrected, nil
}
