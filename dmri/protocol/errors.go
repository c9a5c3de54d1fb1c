package protocol

import "errors"

var (
	// ErrUnknownColumn is returned when a column is neither stored nor
	// derivable from the stored columns.
	ErrUnknownColumn = errors.New("protocol: unknown column")

	// ErrColumnLength is returned when column data does not match the
	// table length.
	ErrColumnLength = errors.New("protocol: column length mismatch")

	// ErrMissingHeader is returned when a protocol file does not start
	// with a '#' column header line.
	ErrMissingHeader = errors.New("protocol: missing column header")

	// ErrTimingUnderdetermined is returned when the stored columns are
	// insufficient to derive the sequence timings.
	ErrTimingUnderdetermined = errors.New("protocol: insufficient columns to derive sequence timings")

	// ErrNoTimingSolution is returned when no physical pulse duration
	// reproduces a row's diffusion weighting.
	ErrNoTimingSolution = errors.New("protocol: no physical pulse duration solves the weighting")

	// ErrNoProtocolSource is returned when a directory holds neither a
	// protocol file nor a b-vector/b-value pair.
	ErrNoProtocolSource = errors.New("protocol: no protocol source found")
)
