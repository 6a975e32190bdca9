package cmd

import (
	"fmt"

	racman "github.com/racman-io/racman/internal"
	"github.com/racman-io/racman/pkg/bmc"
	"github.com/spf13/viper"
)

// targetFile is shared by every command that accepts --file for batch
// operation over a list of controllers.
var targetFile string

// connectController opens one authenticated controller handle using the
// global broker configuration.
func connectController(host string) (*bmc.Controller, error) {
	broker := racman.BuildBroker()
	return broker.Connect(host, racman.PasswordProvider(broker.Account))
}

// forEachTarget walks all requested controllers, connecting and running
// fn on each; per-target failures are logged and the batch continues.
func forEachTarget(args []string, fn func(*bmc.Controller) error) error {
	targets, err := racman.ReadTargets(args, targetFile)
	if err != nil {
		return err
	}
	broker := racman.BuildBroker()
	racman.ForEachController(broker, targets, racman.PasswordProvider(broker.Account), fn)
	return nil
}

// printReply reports a command outcome on stdout, with a nonzero-job hint
// for operations that spawned a task.
func printReply(c *bmc.Controller, reply bmc.CommandReply) {
	if reply.Job != 0 {
		fmt.Printf("%s: %s (job %d)\n", c.Name, reply.Message, reply.Job)
		return
	}
	fmt.Printf("%s: %s\n", c.Name, reply.Message)
}

func cachePath() string {
	return viper.GetString("cache")
}
