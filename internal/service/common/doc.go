// Package common holds helpers shared by the command-line tools.
//
// It provides a lightweight gRPC client wrapper with timeouts and utilities to
// detect the current system actor (hostname/username) for the unit's audit log.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
