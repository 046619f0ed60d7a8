// Package hand contains core domain types for the hand controller.
//
// It defines the fixed actuator and finger sets of the tactile hand: four
// motors (three gripping fingers plus the preshape joint) and three fingers.
// Actuators mirror commanded setpoints together with per-class pending-update
// flags; fingers mirror tactile feedback. The index-to-identity mapping of
// feedback records is fixed by the driver protocol.
package hand
