// Package controller implements the hand's command arbitration and safety
// interlock state machine.
//
// A single control loop ticks at a fixed rate. Each tick the arbiter scans
// the actuators' pending-update flags in fixed priority order (speed beats
// position beats torque) and emits at most one batched command frame for the
// whole actuator group. Inbound command handlers sequence every mutation
// around the tactile-stop interlock with enforced settle delays, and a
// watchdog over feedback timestamps fail-stops the loop when the hand goes
// silent.
package controller
