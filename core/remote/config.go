package remote

// Drivers.
const (
	DriverSandbox = "sandbox"
)

// Config selects the remote client implementation.
type Config struct {
	// Driver names the client implementation.
	Driver string `mapstructure:"driver" default:"sandbox"`
	// FixtureObject is the storage object the sandbox is seeded from. Empty starts empty.
	FixtureObject string `mapstructure:"fixture_object" default:""`
}
