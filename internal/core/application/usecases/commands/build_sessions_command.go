package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/packaging"
	"fulfillment/internal/pkg/guard"
)

var ErrBuildSessionsCommandIsNotConstructed = errors.New(
	"BuildSessionsCommand must be created via NewBuildSessionsCommand constructor",
)

// BuildSessionsCommand batches ready shipments into draft sessions.
// A dry run returns the plan without persisting anything.
type BuildSessionsCommand struct {
	stationType  *packaging.StationType
	dryRun       bool
	orderNumbers []string

	guard guard.ConstructorGuard
}

// NewBuildSessionsCommand creates a build limited to stationType and
// orderNumbers when they are set.
func NewBuildSessionsCommand(stationType *packaging.StationType, dryRun bool, orderNumbers []string) (BuildSessionsCommand, error) {
	if stationType != nil {
		if err := stationType.Validate(); err != nil {
			return BuildSessionsCommand{}, err
		}
	}

	return BuildSessionsCommand{
		stationType:  stationType,
		dryRun:       dryRun,
		orderNumbers: orderNumbers,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c BuildSessionsCommand) StationType() *packaging.StationType { return c.stationType }
func (c BuildSessionsCommand) DryRun() bool                        { return c.dryRun }
func (c BuildSessionsCommand) OrderNumbers() []string              { return c.orderNumbers }

func (c BuildSessionsCommand) Validate() error {
	return c.guard.Validate(ErrBuildSessionsCommandIsNotConstructed)
}
