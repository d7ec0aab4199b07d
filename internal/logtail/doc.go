// Package logtail reads the end of the application log file for the
// diagnostics overlay.
//
// # Reading Log Files
//
// Read uses a ring buffer of size maxLines, so it scans the file once with
// O(maxLines) memory regardless of file size and returns the lines oldest
// first. A missing file returns nil, nil; other I/O errors are wrapped.
//
// # Parsing
//
// The application logs zerolog JSON lines. Parse splits one into time, level,
// component and message, folding the error field into the message and the
// remaining fields into sorted key=value pairs. Lines that fail to decode are
// kept verbatim so nothing is hidden from the overlay.
package logtail
