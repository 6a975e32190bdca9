package bmc

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stmcginnis/gofish/redfish"
)

// Fixed resource paths consumed by the engine. The manager path itself is
// discovered from the collection root at connect time.
const (
	serviceRoot       = "/redfish/v1"
	managerCollection = "/redfish/v1/Managers"
	systemPath        = "/redfish/v1/Systems/System.Embedded.1"
	taskPathFormat    = "/redfish/v1/TaskService/Tasks/JID_%d"
	accountsPath      = "/redfish/v1/Managers/iDRAC.Embedded.1/Accounts"
	lcLogCommentPath  = "/redfish/v1/Managers/iDRAC.Embedded.1/Oem/Dell/DellLCService/Actions/DellLCService.InsertCommentInLCLog"
	simpleUpdatePath  = "/redfish/v1/UpdateService/Actions/UpdateService.SimpleUpdate"
)

// defaultPollInterval is the sleep between job polls while a task still
// reports in-progress.
const defaultPollInterval = 100 * time.Millisecond

// Controller is a handle to one authenticated management controller. It is
// bound to the session established by the Broker and is not safe for
// concurrent use; drive one controller from one goroutine.
type Controller struct {
	// Name is the hostname or IP the controller was reached at.
	Name string

	// PollInterval is the delay between job status polls.
	PollInterval time.Duration

	client  Client
	mgrPath string
	sysPath string
}

// Open binds a Controller to an established client by resolving the
// manager resource from the collection root. Exactly one manager member is
// expected; anything else means we are not talking to the kind of
// controller this engine understands.
func Open(name string, client Client) (*Controller, error) {
	res, err := client.Get(managerCollection)
	if err != nil {
		return nil, err
	}
	if res.Status != 200 {
		return nil, fmt.Errorf("manager collection query returned %d", res.Status)
	}
	var collection struct {
		Members []struct {
			ID string `json:"@odata.id"`
		} `json:"Members"`
	}
	if err := json.Unmarshal(res.Body, &collection); err != nil {
		return nil, fmt.Errorf("failed to parse manager collection: %v", err)
	}
	if len(collection.Members) != 1 {
		return nil, fmt.Errorf("expected one manager, found %d", len(collection.Members))
	}
	return &Controller{
		Name:         name,
		PollInterval: defaultPollInterval,
		client:       client,
		mgrPath:      collection.Members[0].ID,
		sysPath:      systemPath,
	}, nil
}

// Token returns the session token the controller handle is bound to.
func (c *Controller) Token() string {
	return c.client.Token()
}

// Logout closes the controller session if this process created it.
func (c *Controller) Logout() error {
	return c.client.Logout()
}

// Summary is the per-controller identity record. It is fetched on demand
// and never cached.
type Summary struct {
	Controller string             `json:"controller"`
	IP         string             `json:"ip,omitempty"`
	Hostname   string             `json:"hostname"`
	ServiceTag string             `json:"service_tag"`
	Power      redfish.PowerState `json:"power"`
	Health     string             `json:"health"`
}

func (s Summary) String() string {
	return fmt.Sprintf("%s %s %s server: %s health %s", s.Controller, s.IP, s.ServiceTag, s.Power, s.Health)
}

// Summary queries the system resource for the basic identity record.
func (c *Controller) Summary() (*Summary, error) {
	res, err := c.client.Get(c.sysPath)
	if err != nil {
		return nil, err
	}
	if res.Status != 200 {
		return nil, fmt.Errorf("system query returned %d: %s", res.Status, extractMessage(res.Body))
	}
	var system struct {
		HostName   string             `json:"HostName"`
		SKU        string             `json:"SKU"`
		PowerState redfish.PowerState `json:"PowerState"`
		Status     struct {
			Health string `json:"Health"`
		} `json:"Status"`
	}
	if err := json.Unmarshal(res.Body, &system); err != nil {
		return nil, fmt.Errorf("failed to parse system resource: %v", err)
	}
	return &Summary{
		Controller: c.Name,
		IP:         resolveIP(c.Name),
		Hostname:   system.HostName,
		ServiceTag: system.SKU,
		Power:      system.PowerState,
		Health:     system.Status.Health,
	}, nil
}

// Query performs a raw GET of an arbitrary resource path and returns the
// body text.
func (c *Controller) Query(path string) ([]byte, error) {
	if len(path) == 0 || path[0] != '/' {
		return nil, fmt.Errorf("query path %q must start with /", path)
	}
	res, err := c.client.Get(path)
	if err != nil {
		return nil, err
	}
	if res.Status != 200 {
		return nil, fmt.Errorf("query %s returned %d: %s", path, res.Status, extractMessage(res.Body))
	}
	return res.Body, nil
}

func resolveIP(host string) string {
	addrs, err := net.LookupIP(host)
	if err != nil {
		log.Debug().Err(err).Str("host", host).Msg("failed to resolve controller address")
		return ""
	}
	for _, a := range addrs {
		if v4 := a.To4(); v4 != nil {
			return v4.String()
		}
	}
	if len(addrs) > 0 {
		return addrs[0].String()
	}
	return ""
}
