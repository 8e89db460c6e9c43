// Package loader registers the HTTP features of the admin API.
//
// A feature reports its name, whether the current configuration enables it and
// how to mount its routes:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// Manager.LoadAll mounts the enabled features in registration order and stops
// at the first one that fails.
package loader
