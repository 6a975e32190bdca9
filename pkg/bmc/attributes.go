package bmc

import (
	"fmt"
	"sort"
	"strings"
)

// Attribute-bearing subsystems addressable by short name. These are fixed
// OEM paths; the controller exposes each as a flat Attributes bag.
var subsystems = map[string]string{
	"idrac":     "/redfish/v1/Managers/iDRAC.Embedded.1/Oem/Dell/DellAttributes/iDRAC.Embedded.1",
	"bios":      "/redfish/v1/Systems/System.Embedded.1/Bios",
	"system":    "/redfish/v1/Managers/iDRAC.Embedded.1/Oem/Dell/DellAttributes/System.Embedded.1",
	"lifecycle": "/redfish/v1/Managers/iDRAC.Embedded.1/Oem/Dell/DellAttributes/LifecycleController.Embedded.1",
}

// Subsystems returns the addressable subsystem names, sorted.
func Subsystems() []string {
	names := make([]string, 0, len(subsystems))
	for name := range subsystems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func subsystemPath(component string) (string, error) {
	path, ok := subsystems[component]
	if !ok {
		return "", fmt.Errorf("invalid subsystem %q, must be one of %s", component, strings.Join(Subsystems(), ","))
	}
	return path, nil
}

// GetAttributes reads the Attributes projection of a subsystem. A
// non-empty attribute narrows the selection to that single attribute.
func (c *Controller) GetAttributes(component, attribute string) ([]byte, error) {
	path, err := subsystemPath(component)
	if err != nil {
		return nil, err
	}
	query := path + "?$select=Attributes"
	if attribute != "" {
		if !strings.HasPrefix(attribute, "/") {
			attribute = "/" + attribute
		}
		query += attribute
	}
	return c.Query(query)
}

// SetAttributes patches a subsystem's attribute bag.
func (c *Controller) SetAttributes(component string, attributes map[string]any) (CommandReply, error) {
	path, err := subsystemPath(component)
	if err != nil {
		return CommandReply{}, err
	}
	res, err := c.client.Patch(path, map[string]any{"Attributes": attributes})
	if err != nil {
		return CommandReply{}, err
	}
	return c.readReply(res, 200, fmt.Sprintf("Updated %s attributes", component)), nil
}

// InsertComment records an operator comment in the controller's lifecycle
// log.
func (c *Controller) InsertComment(comment string) (CommandReply, error) {
	return c.execute(lcLogCommentPath, map[string]any{"Comment": comment}, 200, "Comment recorded")
}
