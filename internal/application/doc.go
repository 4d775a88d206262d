// Package application provides application initialization and dependency wiring.
// It builds storage, the orientation packer, metrics, handlers, routers and the
// HTTP server, keeping the main package focused on CLI parsing and orchestration.
package application
