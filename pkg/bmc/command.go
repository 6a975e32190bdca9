package bmc

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// CommandReply is the result of every mutating controller operation.
// Controller-reported failures are folded into the reply instead of being
// raised, so batch callers can keep going; Job is nonzero when the
// operation spawned an asynchronous task.
type CommandReply struct {
	Succeeded bool   `json:"succeeded"`
	Message   string `json:"message"`
	Results   any    `json:"results,omitempty"`
	Job       int    `json:"job,omitempty"`
}

// execute posts an action and classifies the reply. Only transport
// failures surface as errors; a status mismatch becomes a failed
// CommandReply carrying the controller's extended-error message.
func (c *Controller) execute(path string, body any, expect int, good string) (CommandReply, error) {
	res, err := c.client.Post(path, body)
	if err != nil {
		return CommandReply{}, err
	}
	return c.readReply(res, expect, good), nil
}

// readReply compares the response status against the expected one and
// builds the uniform reply envelope.
func (c *Controller) readReply(res *Response, expect int, good string) CommandReply {
	if res.Status == expect {
		return CommandReply{
			Succeeded: true,
			Message:   good,
			Job:       parseJobID(res.TaskLocation),
		}
	}
	msg := extractMessage(res.Body)
	log.Info().Str("controller", c.Name).Int("status", res.Status).Msgf("%s: %s", good, msg)
	return CommandReply{Message: msg}
}

// parseJobID pulls the numeric job id out of a task location such as
// "/redfish/v1/TaskService/Tasks/JID_482". Returns 0 when the location is
// absent or carries no job id.
func parseJobID(location string) int {
	if location == "" {
		return 0
	}
	parts := strings.Split(location, "/")
	last := parts[len(parts)-1]
	i := strings.LastIndex(last, "_")
	if i < 0 {
		return 0
	}
	id, err := strconv.Atoi(last[i+1:])
	if err != nil {
		log.Debug().Str("location", location).Msg("task location carries no job id")
		return 0
	}
	return id
}

// extractMessage digs the first extended-info message out of a redfish
// error body. Falls back to the raw body text when the field is absent.
func extractMessage(body []byte) string {
	var reply struct {
		Error struct {
			ExtendedInfo []struct {
				Message string `json:"Message"`
			} `json:"@Message.ExtendedInfo"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &reply); err != nil || len(reply.Error.ExtendedInfo) == 0 {
		log.Warn().Msgf("no extended error message in reply: %s", string(body))
		return string(body)
	}
	return reply.Error.ExtendedInfo[0].Message
}
