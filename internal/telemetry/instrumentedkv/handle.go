package instrumentedkv

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

var handleCounter atomic.Uint64

// handleID returns a unique identifier for an instrumented store.
//
// The counter is for humans reading logs, the UUID is for correlation across
// processes.
func handleID() string {
	return fmt.Sprintf(
		"#%d %s",
		handleCounter.Add(1),
		uuid.NewString(),
	)
}
