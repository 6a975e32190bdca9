package bmc

import (
	"github.com/stmcginnis/gofish/redfish"
)

// reset posts a ComputerSystem.Reset action. Controllers answer these with
// 204 and no task, so a successful reply never carries a job id.
func (c *Controller) reset(resetType redfish.ResetType, good string) (CommandReply, error) {
	return c.execute(
		c.sysPath+"/Actions/ComputerSystem.Reset",
		map[string]any{"ResetType": string(resetType)},
		204, good,
	)
}

// TurnOff gracefully shuts the system down. A system that is already off
// gets a no-op success so batch callers see a stable outcome either way.
func (c *Controller) TurnOff() (CommandReply, error) {
	summary, err := c.Summary()
	if err != nil {
		return CommandReply{}, err
	}
	if summary.Power == redfish.OnPowerState {
		return c.reset(redfish.GracefulShutdownResetType, "Shutdown")
	}
	return CommandReply{Succeeded: true, Message: "Already off"}, nil
}

// ForceOff cuts power without waiting for the host OS.
func (c *Controller) ForceOff() (CommandReply, error) {
	summary, err := c.Summary()
	if err != nil {
		return CommandReply{}, err
	}
	if summary.Power == redfish.OnPowerState {
		return c.reset(redfish.ForceOffResetType, "Force shutdown")
	}
	return CommandReply{Succeeded: true, Message: "Already off"}, nil
}

// TurnOn powers the system up if it is currently off.
func (c *Controller) TurnOn() (CommandReply, error) {
	summary, err := c.Summary()
	if err != nil {
		return CommandReply{}, err
	}
	if summary.Power == redfish.OffPowerState {
		return c.reset(redfish.OnResetType, "Turn on")
	}
	return CommandReply{Succeeded: true, Message: "Already on"}, nil
}
