// Package serial reads the controller link from a serial port and hands
// every received byte to a sink, one call per byte.
//
// The reader goroutine is the unit's asynchronous receive context: it never
// waits on the control loop, and the sink it calls must not block.
package serial
