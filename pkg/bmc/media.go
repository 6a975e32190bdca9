package bmc

import (
	"encoding/json"
	"fmt"
	"strings"
)

// VirtualMedia describes one removable-media device on the controller.
type VirtualMedia struct {
	ID        string `json:"id"`
	Device    string `json:"device"`
	ImageName string `json:"image_name,omitempty"`
	Image     string `json:"image,omitempty"`
}

// Empty reports whether the device has no image mounted.
func (v VirtualMedia) Empty() bool {
	return v.ImageName == ""
}

func (v VirtualMedia) String() string {
	if v.Empty() {
		return fmt.Sprintf("%s: empty", v.Device)
	}
	return fmt.Sprintf("%s: %s", v.Device, v.ImageName)
}

// VirtualMedia lists the controller's removable-media devices.
func (c *Controller) VirtualMedia() ([]VirtualMedia, error) {
	body, err := c.Query(c.mgrPath + "/VirtualMedia")
	if err != nil {
		return nil, err
	}
	var collection struct {
		Members []struct {
			ID string `json:"@odata.id"`
		} `json:"Members"`
	}
	if err := json.Unmarshal(body, &collection); err != nil {
		return nil, fmt.Errorf("failed to parse virtual media collection: %v", err)
	}
	devices := make([]VirtualMedia, 0, len(collection.Members))
	for _, m := range collection.Members {
		parts := strings.Split(m.ID, "/")
		dev := parts[len(parts)-1]
		devBody, err := c.Query(c.mgrPath + "/VirtualMedia/" + dev)
		if err != nil {
			return nil, err
		}
		var device struct {
			ID        string `json:"Id"`
			Name      string `json:"Name"`
			ImageName string `json:"ImageName"`
			Image     string `json:"Image"`
		}
		if err := json.Unmarshal(devBody, &device); err != nil {
			return nil, fmt.Errorf("failed to parse virtual media device %s: %v", dev, err)
		}
		devices = append(devices, VirtualMedia{
			ID:        device.ID,
			Device:    device.Name,
			ImageName: device.ImageName,
			Image:     device.Image,
		})
	}
	return devices, nil
}

// MountVirtual inserts an ISO image into the virtual CD device. The image
// URL must be reachable from the controller itself.
func (c *Controller) MountVirtual(isoURL string) (CommandReply, error) {
	return c.execute(
		c.mgrPath+"/VirtualMedia/CD/Actions/VirtualMedia.InsertMedia",
		map[string]any{
			"Image":          isoURL,
			"Inserted":       true,
			"WriteProtected": true,
		},
		204, fmt.Sprintf("Mounted %s", isoURL),
	)
}

// EjectVirtual disconnects whatever is mounted in the virtual CD device.
func (c *Controller) EjectVirtual() (CommandReply, error) {
	return c.execute(
		c.mgrPath+"/VirtualMedia/CD/Actions/VirtualMedia.EjectMedia",
		map[string]any{},
		204, "Ejected virtual media",
	)
}
