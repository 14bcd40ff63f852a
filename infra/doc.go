// Package infra contains technical adapters: workbook IO, solver transports,
// result sinks, metrics recorders and error monitoring. These packages
// depend only on the interfaces defined in the core packages.
package infra
