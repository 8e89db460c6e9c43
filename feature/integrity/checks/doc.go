// Package checks holds the individual health checks of the integrity feature.
package checks
