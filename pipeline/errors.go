// errors.go — Static fault payloads for the stage loops

package pipeline

import "errors"

var (
	// errRingFull marks a push into a ring that the circulation
	// protocol guarantees can never fill. Implementation bug.
	errRingFull = errors.New("job ring full: circulation invariant broken")

	// errLineTooLong marks a line the carry slot cannot complete: the
	// carry is occupied and a full read buffer arrived with no
	// terminator.
	errLineTooLong = errors.New("line exceeds the streamable maximum")
)
