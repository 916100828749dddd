package config

import "os"

// Environment is the runtime environment the server was started in.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment resolves the current environment. CI is detected from the
// CI variable; everything else comes from ENV, defaulting to development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	switch os.Getenv("ENV") {
	case string(Production):
		return Production
	case string(Test):
		return Test
	default:
		return Development
	}
}

func IsDevelopment() bool { return GetEnvironment() == Development }

func IsTest() bool { return GetEnvironment() == Test }

func IsCI() bool { return GetEnvironment() == CI }

// IsProduction gates the stricter configuration checks: secrets that may be
// empty in development are required in production.
func IsProduction() bool { return GetEnvironment() == Production }
