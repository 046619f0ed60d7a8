// Package handctl wires the hand controller process: configuration, logging,
// the driver connection, the HTTP command gateway and the control loop.
package handctl
