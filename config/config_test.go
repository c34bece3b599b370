package config

import (
	"strings"
	"testing"

	"go.viam.com/rdk/logging"
	"go.viam.com/test"
)

const testCfgPath = "services.slam.attributes.fake"

func validConfig() *Config {
	return &Config{
		OdometrySigmas: []float64{0.1, 0.1, 0.05},
		GPSSigmas:      []float64{2, 2, 0.5},
		LandmarkSigmas: []float64{0.2, 0.2},
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		test.That(t, validConfig().Validate(testCfgPath), test.ShouldBeNil)
	})

	t.Run("missing required fields", func(t *testing.T) {
		cfg := validConfig()
		cfg.OdometrySigmas = nil
		err := cfg.Validate(testCfgPath)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, strings.Contains(err.Error(), "odometry_sigmas"), test.ShouldBeTrue)

		cfg = validConfig()
		cfg.LandmarkSigmas = nil
		err = cfg.Validate(testCfgPath)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, strings.Contains(err.Error(), "landmark_sigmas"), test.ShouldBeTrue)
	})

	t.Run("gps sigmas are optional but shape-checked", func(t *testing.T) {
		cfg := validConfig()
		cfg.GPSSigmas = nil
		test.That(t, cfg.Validate(testCfgPath), test.ShouldBeNil)

		cfg.GPSSigmas = []float64{1}
		test.That(t, cfg.Validate(testCfgPath), test.ShouldNotBeNil)
	})

	t.Run("multiple violations are all reported", func(t *testing.T) {
		cfg := validConfig()
		cfg.OdometrySigmas = []float64{0.1, -1, 0.05}
		step := -0.5
		cfg.NumericalJacobianStep = &step
		err := cfg.Validate(testCfgPath)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, strings.Contains(err.Error(), "positive"), test.ShouldBeTrue)
		test.That(t, strings.Contains(err.Error(), "numerical_jacobian_step"), test.ShouldBeTrue)
	})
}

func TestGetOptionalParameters(t *testing.T) {
	logger := logging.NewTestLogger(t)

	cfg := validConfig()
	test.That(t, GetOptionalParameters(cfg, 1e-6, logger), test.ShouldAlmostEqual, 1e-6)

	step := 1e-4
	cfg.NumericalJacobianStep = &step
	test.That(t, GetOptionalParameters(cfg, 1e-6, logger), test.ShouldAlmostEqual, 1e-4)
}

func TestSqrtInfFromSigmas(t *testing.T) {
	sqrtinf, err := SqrtInfFromSigmas([]float64{0.1, 0.2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sqrtinf.At(0, 0), test.ShouldAlmostEqual, 10)
	test.That(t, sqrtinf.At(1, 1), test.ShouldAlmostEqual, 5)
	test.That(t, sqrtinf.At(0, 1), test.ShouldAlmostEqual, 0)

	_, err = SqrtInfFromSigmas(nil)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = SqrtInfFromSigmas([]float64{0.1, 0})
	test.That(t, err, test.ShouldNotBeNil)
}
