// Package telemetry sets up logging and tracing for the service.
package telemetry
