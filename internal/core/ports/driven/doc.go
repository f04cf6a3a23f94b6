// Package driven defines the secondary (driven) ports: interfaces the
// core services call out through. Adapters for storage, the search
// index, connectors and configuration implement them.
package driven
