// Package driver implements the outbound link to the hand driver.
//
// The driver accepts newline-delimited JSON frames over TCP, each carrying a
// type tag and one value per actuator where applicable. The Client
// implements controller.Driver; it owns no decision logic and only encodes
// what the arbiter hands it.
package driver
