package cmd

import (
	"fmt"
	"strconv"

	"github.com/racman-io/racman/pkg/bmc"
	"github.com/spf13/cobra"
)

var (
	jobWait         bool
	jobAllowMissing bool
)

// The `job` command polls one asynchronous controller task, either once
// or until it leaves the in-progress state.
var jobCmd = &cobra.Command{
	Use:  "job host id",
	Args: cobra.ExactArgs(2),
	Example: `  racman job bmc1 482
  racman job bmc1 482 --wait --wait-timeout 300
  // a reaped job is fine if all we wanted was completion
  racman job bmc1 482 --wait --allow-missing`,
	Short: "Check or wait on a controller job",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("job id must be numeric: %v", err)
		}
		c, err := connectController(args[0])
		if err != nil {
			return err
		}
		var status bmc.JobStatus
		if jobWait {
			status, err = waitForJob(c, id, jobAllowMissing)
		} else {
			status, err = c.JobStatus(id, jobAllowMissing)
		}
		if err != nil {
			return err
		}
		fmt.Printf("job %d: status %d\n%s\n", id, status.Status, string(status.Data))
		return nil
	},
}

func init() {
	jobCmd.Flags().BoolVarP(&jobWait, "wait", "w", false, "Poll until the job leaves the in-progress state")
	jobCmd.Flags().BoolVar(&jobAllowMissing, "allow-missing", false, "Treat a 404 for the job as an acceptable outcome")
	rootCmd.AddCommand(jobCmd)
}
