// Package alarm contains core domain types for the annunciator.
//
// It defines Level (the ordered alarm severity), Event (a decoded alarm
// frame) and State (the level, mute flag and message currently shown by the
// unit). State is owned by the control loop and is not safe for concurrent use;
// hand out copies produced by Clone.
package alarm
