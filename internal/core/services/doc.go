// Package services implements the driving port interfaces.
// Services contain the core storage logic and orchestrate
// calls to driven ports (adapters).
//
// StorageService is the table accessor: it sets up the connection and
// tables lazily, serialises writes per table through a tail queue and
// holds a write barrier so Close never loses an in-flight write.
package services
