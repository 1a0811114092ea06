package plugin

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrEmptyID is returned by ValidateUID when the plugin has no identifier.
var ErrEmptyID = errors.New("plugin ID is empty")

// Info contains plugin metadata
type Info struct {
	ID       string // Unique plugin identifier (e.g., "com.example.myplugin")
	Name     string // Display name
	Version  string // Semantic version (e.g., "1.0.0")
	Vendor   string // Company/developer name
	Category string // Plugin category (e.g., "Fx|Analyzer")
}

// UID derives a stable 16-byte class identifier from the string ID.
// The same ID always yields the same UID.
func (i Info) UID() [16]byte {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(i.ID))
}

// UIDString returns the UID in canonical textual form.
func (i Info) UIDString() string {
	return uuid.UUID(i.UID()).String()
}

// String returns "Name Version (UID)".
func (i Info) String() string {
	return fmt.Sprintf("%s %s (%s)", i.Name, i.Version, i.UIDString())
}

// Describer is implemented by processors that publish their metadata.
type Describer interface {
	Info() Info
}

// ValidateUID checks that a UID can be derived.
func (i Info) ValidateUID() error {
	if i.ID == "" {
		return ErrEmptyID
	}
	return nil
}
