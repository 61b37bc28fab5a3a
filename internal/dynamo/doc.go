// Package dynamo provides the shared contracts between the particle core
// and the collaborators that drive and display it.
//
// The package defines the types every other package agrees on:
//
//   - [Frame]: a published snapshot of the position buffer
//   - [Sink]: receives one Frame per simulation step
//   - [View]: read access to particle state for metrics and observers
//   - [Stepper]: anything advanced once per displayed frame
//   - [Clock]: produces the elapsed time handed to each step
//
// # Example
//
//	sys := physics.New(100, 5, 9.81, 0.8, physics.WithSeed(1))
//	sys.Subscribe(dynamo.SinkFunc(func(f dynamo.Frame) {
//	    upload(f.Positions)
//	}))
//	sys.Step(1.0 / 60)
//
// # Thread Safety
//
// Nothing in this package synchronizes. A Frame's Positions slice is owned by
// the publisher and is only valid until the next step.
package dynamo
