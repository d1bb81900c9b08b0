package rdfset

import "github.com/pkg/errors"

// ErrContractViolation indicates that a caller broke the calling protocol of
// a dataset, for example by popping a scope it never pushed
var ErrContractViolation = errors.New("dataset contract violation")

// ErrNoActiveGraph is returned by ResetActiveGraph when no active scope was pushed
var ErrNoActiveGraph = errors.Wrap(ErrContractViolation, "unable to reset the active graph since no previous active graphs exist")

// ErrNoDefaultGraph is returned by ResetDefaultGraph when no default scope was pushed
var ErrNoDefaultGraph = errors.Wrap(ErrContractViolation, "unable to reset the default graph since no previous default graphs exist")

// ErrUnsupported indicates a mutation of an immutable dataset
var ErrUnsupported = errors.New("this dataset is immutable")

// ErrGraphNotFound indicates that no graph with the given name exists
var ErrGraphNotFound = errors.New("graph not found")
