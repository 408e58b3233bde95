// Package status implements annunciator-status: it prints the unit's alarm
// status once, or keeps polling it in watch mode.
package status
