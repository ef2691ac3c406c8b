// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: debug.go — Cold-path diagnostics helper (no fmt)
//
// Purpose:
//   - Logs infrequent events: startup phases, shutdown summary, fatal
//     pipeline faults.
//
// Notes:
//   - Avoids fmt.Sprintf to minimize footprint and latency.
//   - Each line is built by string concatenation and written with one
//     write(2) to fd 2; no logger, no os.File locking.
//
// ⚠️ Never invoke in hot loops — use only for failure diagnostics and
//    phase transitions.
// ─────────────────────────────────────────────────────────────────────────────

package debug

import "linerev/utils"

// DropError logs prefix and the error text (or prefix alone for a nil
// error) as one line. It writes directly to stderr (file descriptor 2);
// the line is built by string concatenation.
//
//go:nosplit
//go:inline
//go:registerparams
func DropError(prefix string, err error) {
	if err != nil {
		msg := prefix + ": " + err.Error() + "\n"
		utils.PrintWarning(msg)
	} else {
		msg := prefix + "\n"
		utils.PrintWarning(msg)
	}
}

// DropMessage logs prefix and message as one stderr line, built by
// string concatenation.
// Used for cold-path diagnostics: phase transitions, shutdown summary,
// and configuration echo.
//
//go:nosplit
//go:inline
//go:registerparams
func DropMessage(prefix, message string) {
	msg := prefix + ": " + message + "\n"
	utils.PrintWarning(msg)
}
