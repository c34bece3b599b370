// Package config implements attribute evaluation for the planar SLAM
// front end: measurement noise defaults and linearization settings.
package config

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/rdk/logging"
	goutils "go.viam.com/utils"
	"gonum.org/v1/gonum/mat"

	"github.com/viam-modules/planar-slam/geometry"
)

// newError returns an error specific to a failure in the planar SLAM config.
func newError(configError string) error {
	return errors.Errorf("planar SLAM configuration error: %s", configError)
}

// Config describes how to configure the factor-graph front end. Sigmas are
// per-component measurement standard deviations: (x, y, heading) for pose
// measurements, (x, y) for landmark observations.
type Config struct {
	OdometrySigmas []float64 `json:"odometry_sigmas"`
	GPSSigmas      []float64 `json:"gps_sigmas"`
	LandmarkSigmas []float64 `json:"landmark_sigmas"`

	NumericalJacobianStep *float64 `json:"numerical_jacobian_step"`
}

// Validate checks that required fields exist and are usable.
func (config *Config) Validate(path string) error {
	if len(config.OdometrySigmas) == 0 {
		return goutils.NewConfigValidationFieldRequiredError(path, "odometry_sigmas")
	}
	if len(config.LandmarkSigmas) == 0 {
		return goutils.NewConfigValidationFieldRequiredError(path, "landmark_sigmas")
	}

	var result error
	if len(config.OdometrySigmas) != geometry.PoseDim {
		result = multierr.Append(result, newError("odometry_sigmas must have one entry per pose component"))
	}
	if config.GPSSigmas != nil && len(config.GPSSigmas) != geometry.PoseDim {
		result = multierr.Append(result, newError("gps_sigmas must have one entry per pose component"))
	}
	if len(config.LandmarkSigmas) != geometry.PointDim {
		result = multierr.Append(result, newError("landmark_sigmas must have one entry per point component"))
	}
	for _, sigmas := range [][]float64{config.OdometrySigmas, config.GPSSigmas, config.LandmarkSigmas} {
		for _, sigma := range sigmas {
			if sigma <= 0 {
				result = multierr.Append(result, newError("sigmas must be positive"))
				break
			}
		}
	}
	if config.NumericalJacobianStep != nil && *config.NumericalJacobianStep <= 0 {
		result = multierr.Append(result, newError("numerical_jacobian_step must be positive"))
	}
	return result
}

// GetOptionalParameters sets any unset optional config parameters to the
// defaults passed to this function, and returns them.
func GetOptionalParameters(config *Config, defaultStep float64, logger logging.Logger) float64 {
	if config.NumericalJacobianStep == nil {
		logger.Debugf("no numerical_jacobian_step given, setting to default value of %g", defaultStep)
		return defaultStep
	}
	return *config.NumericalJacobianStep
}

// SqrtInfFromSigmas builds the diagonal upper-triangular square root
// information matrix for independent per-component sigmas: 1/sigma on the
// diagonal.
func SqrtInfFromSigmas(sigmas []float64) (*mat.TriDense, error) {
	if len(sigmas) == 0 {
		return nil, newError("at least one sigma is required")
	}
	sqrtinf := mat.NewTriDense(len(sigmas), mat.Upper, nil)
	for i, sigma := range sigmas {
		if sigma <= 0 {
			return nil, newError("sigmas must be positive")
		}
		sqrtinf.SetTri(i, i, 1/sigma)
	}
	return sqrtinf, nil
}
