package reimage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/metalfog/fogctl/internal/config"
	"github.com/metalfog/fogctl/internal/metrics"
	"github.com/metalfog/fogctl/internal/platform/fog"
	"github.com/metalfog/fogctl/internal/remote"
)

// Service is the slice of the imaging-service client the reimager consumes.
type Service interface {
	ResolveHost(ctx context.Context, shortName string) (int, error)
	ResolveImage(ctx context.Context, machineType, osType, osVersion string) (int, error)
	SetImage(ctx context.Context, hostID, imageID int) error
	ScheduleDeploy(ctx context.Context, hostID int, hostName string) (int, error)
	CancelTask(ctx context.Context, taskID int) error
	WaitForDeploy(ctx context.Context, taskID int, hostName string, interval time.Duration, maxAttempts int, timeout time.Duration) error
}

// Params collects the collaborators for a Reimager.
type Params struct {
	Config   *config.Config
	Service  Service
	Executor remote.Executor
	Power    remote.PowerController

	MachineType string
	OSType      string
	OSVersion   string

	Log logr.Logger
}

// Reimager drives one reimage lifecycle for one target host.
type Reimager struct {
	cfg         *config.Config
	service     Service
	executor    remote.Executor
	power       remote.PowerController
	machineType string
	osType      string
	osVersion   string
	log         logr.Logger
}

// New creates a Reimager. The logger is scoped to the target host.
func New(p Params) (*Reimager, error) {
	if p.Config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if p.Service == nil || p.Executor == nil || p.Power == nil {
		return nil, fmt.Errorf("service, executor, and power controller are required")
	}
	if p.MachineType == "" || p.OSType == "" || p.OSVersion == "" {
		return nil, fmt.Errorf("machine type, os type, and os version are required")
	}
	if p.Config.Timeouts == nil {
		p.Config.Timeouts = config.LoadTimeouts()
	}
	return &Reimager{
		cfg:         p.Config,
		service:     p.Service,
		executor:    p.Executor,
		power:       p.Power,
		machineType: p.MachineType,
		osType:      p.OSType,
		osVersion:   p.OSVersion,
		log:         p.Log.WithName(p.Executor.ShortName()),
	}, nil
}

// Create initiates a deploy and waits until the host is reimaged, reachable,
// renamed, and running the requested OS.
func (r *Reimager) Create(ctx context.Context) error {
	err := r.create(ctx)
	if err != nil {
		metrics.RecordReimage("failure")
		return err
	}
	metrics.RecordReimage("success")
	return nil
}

func (r *Reimager) create(ctx context.Context) error {
	if !r.cfg.Enabled() {
		return fmt.Errorf("%w; set the following config options to enable: %s",
			fog.ErrNotConfigured, strings.Join(r.cfg.MissingKeys(), " "))
	}

	shortName := r.executor.ShortName()

	hostID, err := r.service.ResolveHost(ctx, shortName)
	if err != nil {
		return err
	}

	imageID, err := r.service.ResolveImage(ctx, r.machineType, r.osType, r.osVersion)
	if err != nil {
		return err
	}
	r.log.V(1).Info("resolved image", "imageID", imageID)
	if err := r.service.SetImage(ctx, hostID, imageID); err != nil {
		return err
	}

	r.log.Info("scheduling deploy", "osType", r.osType, "osVersion", r.osVersion)
	taskID, err := r.service.ScheduleDeploy(ctx, hostID, shortName)
	if err != nil {
		return err
	}

	if err := r.powerCycleAndWait(ctx, taskID, shortName); err != nil {
		// Best-effort compensation: an orphaned active task would block the
		// host's next deploy.
		if cancelErr := r.service.CancelTask(ctx, taskID); cancelErr != nil {
			r.log.Error(cancelErr, "failed to cancel deploy task", "taskID", taskID)
		} else {
			metrics.RecordTaskCancellation("failure_recovery")
		}
		return err
	}

	if err := r.waitForReady(ctx); err != nil {
		return err
	}
	if err := r.fixHostname(ctx); err != nil {
		return err
	}
	if err := r.verifyInstalledOS(ctx); err != nil {
		return err
	}
	r.log.Info("deploy complete")
	return nil
}

// powerCycleAndWait spans the window where a scheduled task is outstanding:
// power-cycle the host and wait for the task to leave the active list.
//
// Power off/on is used instead of a soft reboot because the freshly-imaged
// host still carries the image donor's hostname and cannot be addressed by
// name yet.
func (r *Reimager) powerCycleAndWait(ctx context.Context, taskID int, shortName string) error {
	if err := r.power.PowerOff(ctx); err != nil {
		return fmt.Errorf("power off failed: %w", err)
	}
	if err := r.power.PowerOn(ctx); err != nil {
		return fmt.Errorf("power on failed: %w", err)
	}

	t := r.cfg.Timeouts
	return r.service.WaitForDeploy(ctx, taskID, shortName,
		t.DeployPollInterval, t.DeployMaxAttempts, t.DeployWait)
}

// Destroy is a no-op; idle bare-metal nodes are left as-is between uses.
func (r *Reimager) Destroy(_ context.Context) error {
	return nil
}
