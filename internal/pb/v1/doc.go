// Package pb declares the annunciator.v1.AnnunciatorService gRPC contract.
//
// The service exchanges protobuf well-known types: statuses travel as
// google.protobuf.Struct, raw frames as google.protobuf.BytesValue. Status
// converts between the Struct payload and a typed Go value, and the actor
// helpers carry the caller identity in request metadata.
package pb
