/*package march turns a field of escape times into tetrahedra and render
buffers through a chain of pipeline stages. Each stage derives its output
from the stage before it, its "fore" stage, and tracks whether that output
is stale.
*/
package march

import (
	"sync"
)

// Stage is one step of a pipeline.
type Stage interface {
	// Handle recomputes the stage's output from its fore stage.
	Handle() error
	// IsDirty returns true if the stage or anything upstream of it is stale.
	IsDirty() bool
	// ClearDirty marks the stage and everything upstream of it as fresh.
	ClearDirty()
}

// Linkable is a Stage whose fore stage can be set by Link. Types embedding
// Base are Linkable.
type Linkable interface {
	Stage
	setFore(fore Stage)
}

// Base holds the bookkeeping shared by all stages. The zero value is a dirty
// stage with no fore stage.
type Base struct {
	fore  Stage
	clean bool
	// mu guards the output of the embedding stage.
	mu sync.Mutex
}

func (b *Base) setFore(fore Stage) { b.fore = fore }

// Fore returns the stage's upstream stage, or nil.
func (b *Base) Fore() Stage { return b.fore }

// IsDirty returns true if the stage itself is stale or its fore stage
// is dirty.
func (b *Base) IsDirty() bool {
	return !b.clean || (b.fore != nil && b.fore.IsDirty())
}

// ClearDirty clears the stage's own flag and then its fore stage's.
func (b *Base) ClearDirty() {
	b.clean = true
	if b.fore != nil {
		b.fore.ClearDirty()
	}
}

// MarkDirty flags the stage's own output as stale.
func (b *Base) MarkDirty() { b.clean = false }

// Link makes fore the upstream stage of s and runs s.Handle.
func Link(s Linkable, fore Stage) error {
	s.setFore(fore)
	return s.Handle()
}
