// Package driving defines the primary (driving) ports: the interfaces
// through which the CLI drives the core services.
package driving
