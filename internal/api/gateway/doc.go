// Package gateway exposes the controller's inbound operations over an
// HTTP/JSON API.
//
// It is a thin transport: request bodies are decoded at the edge and handed
// to the Controller interface, command acknowledgments are empty, and shape
// violations map to 400 responses. Feedback from the hand driver bridge
// arrives through the same gateway.
package gateway
