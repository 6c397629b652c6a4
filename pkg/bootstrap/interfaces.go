package bootstrap

import (
	"context"

	"github.com/arthur-debert/envboot/pkg/manifest"
	"github.com/arthur-debert/envboot/pkg/runner"
)

// Backend is the isolation mechanism
type Backend interface {
	Exists(root string) (bool, error)
	Create(ctx context.Context, root string) error
	Activate(root string) error
	Install(ctx context.Context, root string, m *manifest.Manifest) error
}

// Loader reads a declared manifest
type Loader interface {
	Load(src manifest.Source) (*manifest.Manifest, error)
}

// Invoker starts the test runner and reports its exit code
type Invoker interface {
	Invoke(ctx context.Context, spec runner.Spec, args []string) (int, error)
}

// Store records what was provisioned
type Store interface {
	RecordProvisioning(ctx context.Context, manifests []*manifest.Manifest) error
}

// Step names a stage of the procedure
type Step string

const (
	StepProbe    Step = "probe"
	StepCreate   Step = "create"
	StepActivate Step = "activate"
	StepInstall  Step = "install"
	StepInvoke   Step = "invoke"
)

// Event describes one step. Subject is the root, manifest or command the
// step works on.
type Event struct {
	Step    Step
	Subject string
}

// Observer is told about steps as they run
type Observer interface {
	StepStarted(e Event)
	StepFinished(e Event, err error)
}

type nopObserver struct{}

func (nopObserver) StepStarted(Event)         {}
func (nopObserver) StepFinished(Event, error) {}
