package bmc

import (
	"fmt"
	"testing"
	"time"
)

// fakeClient satisfies Client with a scripted handler and records every
// request the engine issues.
type fakeClient struct {
	calls   []fakeCall
	handler func(method, path string, body any) (*Response, error)
	token   string
}

type fakeCall struct {
	method string
	path   string
	body   any
}

func (f *fakeClient) Get(path string) (*Response, error) {
	f.calls = append(f.calls, fakeCall{"GET", path, nil})
	return f.handler("GET", path, nil)
}

func (f *fakeClient) Post(path string, body any) (*Response, error) {
	f.calls = append(f.calls, fakeCall{"POST", path, body})
	return f.handler("POST", path, body)
}

func (f *fakeClient) Patch(path string, body any) (*Response, error) {
	f.calls = append(f.calls, fakeCall{"PATCH", path, body})
	return f.handler("PATCH", path, body)
}

func (f *fakeClient) Token() string { return f.token }
func (f *fakeClient) Logout() error { return nil }

func testController(fc *fakeClient) *Controller {
	return &Controller{
		Name:         "bmc1",
		PollInterval: time.Millisecond,
		client:       fc,
		mgrPath:      "/redfish/v1/Managers/iDRAC.Embedded.1",
		sysPath:      systemPath,
	}
}

func TestExecuteSuccessCarriesJobID(t *testing.T) {
	fc := &fakeClient{handler: func(method, path string, body any) (*Response, error) {
		return &Response{
			Status:       202,
			TaskLocation: "/redfish/v1/TaskService/Tasks/JID_482",
		}, nil
	}}
	c := testController(fc)

	reply, err := c.execute("/some/action", map[string]any{}, 202, "Staged")
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !reply.Succeeded {
		t.Errorf("expected success, got %+v", reply)
	}
	if reply.Message != "Staged" {
		t.Errorf("expected message Staged, got %q", reply.Message)
	}
	if reply.Job != 482 {
		t.Errorf("expected job 482, got %d", reply.Job)
	}
}

func TestExecuteStatusMismatchIsFailedReplyNotError(t *testing.T) {
	body := `{"error":{"@Message.ExtendedInfo":[{"Message":"iDRAC is not licensed for this"}]}}`
	fc := &fakeClient{handler: func(method, path string, _ any) (*Response, error) {
		return &Response{Status: 400, Body: []byte(body)}, nil
	}}
	c := testController(fc)

	reply, err := c.execute("/some/action", map[string]any{}, 204, "Shutdown")
	if err != nil {
		t.Fatalf("status mismatch must not be an error: %v", err)
	}
	if reply.Succeeded {
		t.Errorf("expected failed reply, got %+v", reply)
	}
	if reply.Message != "iDRAC is not licensed for this" {
		t.Errorf("expected extended-info message, got %q", reply.Message)
	}
	if reply.Job != 0 {
		t.Errorf("failed reply must not carry a job id, got %d", reply.Job)
	}
}

func TestExecuteTransportFailureIsError(t *testing.T) {
	fc := &fakeClient{handler: func(method, path string, body any) (*Response, error) {
		return nil, fmt.Errorf("connection reset")
	}}
	c := testController(fc)

	if _, err := c.execute("/some/action", nil, 204, "x"); err == nil {
		t.Fatal("expected transport failure to surface as error")
	}
}

func TestParseJobID(t *testing.T) {
	cases := []struct {
		location string
		want     int
	}{
		{"/redfish/v1/TaskService/Tasks/JID_482", 482},
		{"/redfish/v1/TaskService/Tasks/Tasks_17", 17},
		{"/redfish/v1/TaskService/Tasks/JID_CLEARALL", 0},
		{"/redfish/v1/TaskService/Tasks/482", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := parseJobID(tc.location); got != tc.want {
			t.Errorf("parseJobID(%q) = %d, want %d", tc.location, got, tc.want)
		}
	}
}

func TestExtractMessageFallsBackToRawBody(t *testing.T) {
	raw := `<html>totally not json</html>`
	if got := extractMessage([]byte(raw)); got != raw {
		t.Errorf("expected raw body fallback, got %q", got)
	}

	empty := `{"error":{"@Message.ExtendedInfo":[]}}`
	if got := extractMessage([]byte(empty)); got != empty {
		t.Errorf("expected raw body for empty extended info, got %q", got)
	}
}
