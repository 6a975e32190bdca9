package racman

import (
	"context"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	bmclib "github.com/bmc-toolbox/bmclib/v2"
	"github.com/go-logr/logr"
	"github.com/jacobweinstock/registrar"
)

// InventoryParams configures one bmclib hardware-inventory query. Unlike
// the session engine, this path authenticates per call with explicit
// credentials; it exists for fleet-wide collection where no interactive
// prompt is wanted.
type InventoryParams struct {
	Host         string
	Username     string
	Password     string
	Timeout      int
	CertPoolFile string
	SecureTLS    bool
	Drivers      []string
	Preferred    string
}

// NewInventoryClient builds a bmclib client for the given controller.
func NewInventoryClient(l *logr.Logger, q *InventoryParams) (*bmclib.Client, error) {
	opts := []bmclib.Option{
		bmclib.WithLogger(*l),
		bmclib.WithRedfishUseBasicAuth(true),
	}
	if q.SecureTLS {
		var pool *x509.CertPool
		if q.CertPoolFile != "" {
			pool = x509.NewCertPool()
			data, err := os.ReadFile(q.CertPoolFile)
			if err != nil {
				return nil, fmt.Errorf("could not read cert pool file: %v", err)
			}
			pool.AppendCertsFromPEM(data)
		}
		// a nil pool uses the system certs
		opts = append(opts, bmclib.WithSecureTLS(pool))
	}

	client := bmclib.NewClient(q.Host, q.Username, q.Password, opts...)
	if len(q.Drivers) > 0 {
		ds := registrar.Drivers{}
		for _, driver := range q.Drivers {
			ds = append(ds, client.Registry.Using(driver)...)
		}
		client.Registry.Drivers = ds
	}
	return client, nil
}

// QueryInventory opens the BMC with the most capable compatible driver
// and returns the full hardware inventory as indented JSON.
func QueryInventory(client *bmclib.Client, q *InventoryParams) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(q.Timeout)*time.Second)
	defer cancel()

	client.Registry.FilterForCompatible(ctx)
	if err := client.PreferProvider(q.Preferred).Open(ctx); err != nil {
		return nil, fmt.Errorf("could not open BMC client: %v", err)
	}
	defer client.Close(ctx)

	inventory, err := client.Inventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get inventory: %v", err)
	}
	return json.MarshalIndent(inventory, "", "    ")
}

// QueryMetadata returns which providers answered for the BMC.
func QueryMetadata(client *bmclib.Client, q *InventoryParams) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(q.Timeout)*time.Second)
	defer cancel()

	client.Registry.FilterForCompatible(ctx)
	if err := client.Open(ctx); err != nil {
		return nil, fmt.Errorf("could not open BMC client: %v", err)
	}
	defer client.Close(ctx)

	return json.MarshalIndent(client.GetMetadata(), "", "    ")
}
