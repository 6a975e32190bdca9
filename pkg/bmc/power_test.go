package bmc

import (
	"fmt"
	"strings"
	"testing"
)

// powerFake answers the system query with the given power state and
// accepts any reset action.
func powerFake(state string) *fakeClient {
	return &fakeClient{handler: func(method, path string, body any) (*Response, error) {
		if method == "GET" && path == systemPath {
			return &Response{
				Status: 200,
				Body:   []byte(fmt.Sprintf(`{"PowerState":%q,"Status":{"Health":"OK"}}`, state)),
			}, nil
		}
		if method == "POST" && strings.HasSuffix(path, "ComputerSystem.Reset") {
			return &Response{Status: 204}, nil
		}
		return &Response{Status: 404, Body: []byte(`{}`)}, nil
	}}
}

func resetActions(fc *fakeClient) []fakeCall {
	var actions []fakeCall
	for _, call := range fc.calls {
		if call.method == "POST" {
			actions = append(actions, call)
		}
	}
	return actions
}

func TestTurnOffWhenOn(t *testing.T) {
	fc := powerFake("On")
	c := testController(fc)

	reply, err := c.TurnOff()
	if err != nil {
		t.Fatalf("TurnOff failed: %v", err)
	}
	if !reply.Succeeded {
		t.Errorf("expected success, got %+v", reply)
	}
	actions := resetActions(fc)
	if len(actions) != 1 {
		t.Fatalf("expected exactly one reset action, got %d", len(actions))
	}
	payload := actions[0].body.(map[string]any)
	if payload["ResetType"] != "GracefulShutdown" {
		t.Errorf("expected GracefulShutdown, got %v", payload["ResetType"])
	}
}

func TestTurnOffAlreadyOffIsNoOp(t *testing.T) {
	fc := powerFake("Off")
	c := testController(fc)

	reply, err := c.TurnOff()
	if err != nil {
		t.Fatalf("TurnOff failed: %v", err)
	}
	if !reply.Succeeded || reply.Message != "Already off" {
		t.Errorf("expected no-op success, got %+v", reply)
	}
	if n := len(resetActions(fc)); n != 0 {
		t.Errorf("no reset action expected, got %d", n)
	}
}

func TestForceOffWhenOn(t *testing.T) {
	fc := powerFake("On")
	c := testController(fc)

	if _, err := c.ForceOff(); err != nil {
		t.Fatalf("ForceOff failed: %v", err)
	}
	actions := resetActions(fc)
	if len(actions) != 1 {
		t.Fatalf("expected one reset action, got %d", len(actions))
	}
	payload := actions[0].body.(map[string]any)
	if payload["ResetType"] != "ForceOff" {
		t.Errorf("expected ForceOff, got %v", payload["ResetType"])
	}
}

func TestTurnOnAlreadyOnIsNoOp(t *testing.T) {
	fc := powerFake("On")
	c := testController(fc)

	reply, err := c.TurnOn()
	if err != nil {
		t.Fatalf("TurnOn failed: %v", err)
	}
	if !reply.Succeeded || reply.Message != "Already on" {
		t.Errorf("expected no-op success, got %+v", reply)
	}
	if n := len(resetActions(fc)); n != 0 {
		t.Errorf("no reset action expected, got %d", n)
	}
}

func TestTurnOnWhenOff(t *testing.T) {
	fc := powerFake("Off")
	c := testController(fc)

	if _, err := c.TurnOn(); err != nil {
		t.Fatalf("TurnOn failed: %v", err)
	}
	actions := resetActions(fc)
	if len(actions) != 1 {
		t.Fatalf("expected one reset action, got %d", len(actions))
	}
	payload := actions[0].body.(map[string]any)
	if payload["ResetType"] != "On" {
		t.Errorf("expected On, got %v", payload["ResetType"])
	}
}
