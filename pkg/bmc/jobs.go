package bmc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// JobStatus is the transient result of polling one asynchronous task.
type JobStatus struct {
	Status int
	Data   json.RawMessage
}

// Complete reports whether the job reached its terminal success state.
func (j JobStatus) Complete() bool {
	return j.Status == 200
}

// JobStatus polls the task resource once. 200 and 202 are ordinary
// outcomes; 404 is tolerated only when allowMissing is set (a finished job
// the controller already reaped). Anything else is a JobStateError.
func (c *Controller) JobStatus(id int, allowMissing bool) (JobStatus, error) {
	res, err := c.client.Get(fmt.Sprintf(taskPathFormat, id))
	if err != nil {
		return JobStatus{}, err
	}
	status := JobStatus{Status: res.Status, Data: res.Body}
	switch {
	case res.Status == 200 || res.Status == 202:
		return status, nil
	case res.Status == 404 && allowMissing:
		return status, nil
	}
	return JobStatus{}, &JobStateError{Job: id, Status: res.Status, Data: res.Body}
}

// WaitFor blocks until the job leaves the in-progress state, sleeping
// PollInterval between polls. The wait has no bound of its own; give it a
// context with a deadline to get ErrTimedOut instead of an open-ended
// poll loop.
func (c *Controller) WaitFor(ctx context.Context, id int, allowMissing bool) (JobStatus, error) {
	interval := c.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	for {
		status, err := c.JobStatus(id, allowMissing)
		if err != nil {
			return JobStatus{}, err
		}
		if status.Status != 202 {
			return status, nil
		}
		select {
		case <-ctx.Done():
			return JobStatus{}, fmt.Errorf("%w waiting for job %d: %v", ErrTimedOut, id, ctx.Err())
		case <-time.After(interval):
		}
	}
}
