// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters and to concrete data producers.
//
// Ports are the boundaries between the core and the outside world. They
// define what the core needs without specifying how those needs are
// fulfilled.
//
// # Port Interfaces
//
//   - [Capability]: the minimal contract a concrete data producer implements
//   - [Sink]: the passive display-painting collaborator
//   - [Logger]: structured logging abstraction
//
// The application layer (internal/app, internal/render) depends only on
// these interfaces. Infrastructure adapters (internal/adapters) provide the
// concrete implementations (SSD1306 over I2C, simulation, zerolog).
package ports
