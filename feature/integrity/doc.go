// Package integrity provides health checks of the infrastructure the sync engine depends on.
//
// # Checks Provided
//
//   - Storage: Checks that the bucket and the run report prefix exist (supports ?fix=true).
//   - Database: Validates that the sync tables carry every column of their gorm models.
//   - Remote: Issues a custom field listing to confirm the remote CRM answers.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/storage
//   - GET /integrity/database
//   - GET /integrity/remote
package integrity
