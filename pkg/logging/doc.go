// Package logging provides the structured logger shared by the HTTP server,
// the snapshot service and the CLI commands. The Logger interface hides the
// zerolog backend so components and tests can swap it out.
package logging
