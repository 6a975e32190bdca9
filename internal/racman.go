// Package racman holds the application-level glue between the CLI and the
// session/job engine in pkg/bmc: broker construction from configuration,
// target-list handling, and the batch drivers that walk controller lists.
package racman

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cznic/mathutil"
	"github.com/racman-io/racman/pkg/bmc"
	"github.com/rs/zerolog/log"
)

// ControllerRecord is one row of the local controller cache, refreshed
// from the summary query on every successful connect.
type ControllerRecord struct {
	Host       string    `db:"host" json:"host"`
	IP         string    `db:"ip" json:"ip"`
	ServiceTag string    `db:"service_tag" json:"service_tag"`
	Power      string    `db:"power" json:"power"`
	Health     string    `db:"health" json:"health"`
	Timestamp  time.Time `db:"timestamp" json:"timestamp"`
}

// RecordSummary converts a summary into a cache row stamped with now.
func RecordSummary(s *bmc.Summary) ControllerRecord {
	return ControllerRecord{
		Host:       s.Controller,
		IP:         s.IP,
		ServiceTag: s.ServiceTag,
		Power:      string(s.Power),
		Health:     s.Health,
		Timestamp:  time.Now(),
	}
}

// ReadTargets resolves the controller list for a command: positional args
// plus, when set, one hostname per line from a file ('-' for stdin).
func ReadTargets(args []string, file string) ([]string, error) {
	targets := append([]string{}, args...)
	if file == "" {
		return targets, nil
	}
	var (
		f   *os.File
		err error
	)
	if file == "-" {
		f = os.Stdin
	} else {
		f, err = os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open target file: %v", err)
		}
		defer f.Close()
	}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			targets = append(targets, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read target file: %v", err)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no target controllers given")
	}
	return targets, nil
}

// ForEachController drives fn over every target sequentially, logging
// failures per controller and moving on so one dead BMC does not sink the
// batch. Sequential on purpose: connects may prompt for a password.
func ForEachController(broker *bmc.Broker, targets []string, password bmc.PasswordFunc, fn func(*bmc.Controller) error) {
	for _, host := range targets {
		c, err := broker.Connect(host, password)
		if err != nil {
			log.Error().Err(err).Str("host", host).Msg("failed to connect to controller")
			continue
		}
		if err := fn(c); err != nil {
			log.Error().Err(err).Str("host", host).Msg("controller operation failed")
		}
	}
}

// RunConcurrent fans work items out over a bounded worker pool and
// collects per-target string results. Used by the non-interactive paths
// (inventory) where no password prompt can interleave.
func RunConcurrent(concurrency int, targets []string, runner func(string) string) map[string]string {
	if concurrency <= 0 {
		concurrency = mathutil.Clamp(len(targets), 1, 10000)
	}

	type result struct {
		target string
		value  string
	}
	work := make(chan string, 1)
	out := make(chan result, concurrency)
	results := make(map[string]string, len(targets))
	var wg sync.WaitGroup

	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			for target := range work {
				out <- result{target, runner(target)}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		for r := range out {
			results[r.target] = r.value
		}
		close(done)
	}()

	for _, t := range targets {
		work <- t
	}
	close(work)
	wg.Wait()
	close(out)
	<-done

	return results
}
