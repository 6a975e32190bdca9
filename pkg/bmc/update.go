package bmc

import "fmt"

// UpdateConfig describes one firmware update kickoff. It is passed by
// value; nothing here is shared or mutated between components.
type UpdateConfig struct {
	// ImageURI points at the firmware image the controller should fetch.
	ImageURI string

	// TransferProtocol is the scheme the controller uses to fetch the
	// image (HTTP, HTTPS, NFS, ...).
	TransferProtocol string

	// Component optionally names the target (BMC, BIOS).
	Component string
}

// StartUpdate posts a SimpleUpdate action and returns the standard reply
// envelope; the Job id tracks the staged update. Image transfer itself is
// the controller's business, driven by the URI.
func (c *Controller) StartUpdate(cfg UpdateConfig) (CommandReply, error) {
	payload := map[string]any{
		"ImageURI":         cfg.ImageURI,
		"TransferProtocol": cfg.TransferProtocol,
	}
	if cfg.Component != "" {
		payload["UpdateComponent"] = cfg.Component
	}
	return c.execute(simpleUpdatePath, payload, 202, fmt.Sprintf("Update staged from %s", cfg.ImageURI))
}
