package domain

import "io"

// Compressor compresses dump streams and artifact files.
type Compressor interface {
	// NewWriter wraps w so that everything written to the returned writer is
	// stored compressed. Close flushes the compressed trailer; it does not
	// close w.
	NewWriter(w io.Writer) (io.WriteCloser, error)
	// Extension is the filename suffix for this compression format, e.g. ".gz".
	Extension() string
}
