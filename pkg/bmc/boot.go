package bmc

import "fmt"

// One-shot boot overrides are applied through the controller's
// system-configuration import action, which stages an XML profile and runs
// it as an asynchronous job. The reply's Job id can be handed to WaitFor.

const importConfigAction = "/Actions/Oem/EID_674_Manager.ImportSystemConfiguration"

func (c *Controller) importBootOverride(device, good string) (CommandReply, error) {
	buffer := fmt.Sprintf(
		`<SystemConfiguration><Component FQDD="iDRAC.Embedded.1">`+
			`<Attribute Name="ServerBoot.1#BootOnce">Enabled</Attribute>`+
			`<Attribute Name="ServerBoot.1#FirstBootDevice">%s</Attribute></Component></SystemConfiguration>`,
		device,
	)
	return c.execute(
		c.mgrPath+importConfigAction,
		map[string]any{
			"ShareParameters": map[string]any{"Target": "ALL"},
			"ImportBuffer":    buffer,
		},
		202, good,
	)
}

// NextBootVirtual makes the next boot come off the virtual CD/DVD device.
func (c *Controller) NextBootVirtual() (CommandReply, error) {
	return c.importBootOverride("VCD-DVD", "Boot set to DVD")
}

// NextBootPXE makes the next boot a PXE network boot.
func (c *Controller) NextBootPXE() (CommandReply, error) {
	return c.importBootOverride("PXE", "Boot set to PXE")
}
