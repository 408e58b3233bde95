// Package annunciator implements the gRPC transport for the annunciator.
//
// It adapts controller snapshots to status payloads and forwards submitted
// frames and mute presses to the controller.
package annunciator
