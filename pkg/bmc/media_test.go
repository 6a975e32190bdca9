package bmc

import (
	"strings"
	"testing"
)

func TestVirtualMediaList(t *testing.T) {
	fc := &fakeClient{handler: func(method, path string, body any) (*Response, error) {
		switch {
		case strings.HasSuffix(path, "/VirtualMedia"):
			return &Response{Status: 200, Body: []byte(`{"Members": [
				{"@odata.id": "/redfish/v1/Managers/iDRAC.Embedded.1/VirtualMedia/CD"},
				{"@odata.id": "/redfish/v1/Managers/iDRAC.Embedded.1/VirtualMedia/RemovableDisk"}
			]}`)}, nil
		case strings.HasSuffix(path, "/VirtualMedia/CD"):
			return &Response{Status: 200, Body: []byte(`{"Id": "CD", "Name": "Virtual CD", "ImageName": "install.iso", "Image": "http://repo/install.iso"}`)}, nil
		case strings.HasSuffix(path, "/VirtualMedia/RemovableDisk"):
			return &Response{Status: 200, Body: []byte(`{"Id": "RemovableDisk", "Name": "Virtual Removable Disk"}`)}, nil
		}
		return &Response{Status: 404, Body: []byte(`{}`)}, nil
	}}
	c := testController(fc)

	devices, err := c.VirtualMedia()
	if err != nil {
		t.Fatalf("VirtualMedia failed: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(devices))
	}
	if devices[0].Empty() {
		t.Errorf("CD should carry an image: %+v", devices[0])
	}
	if got := devices[0].String(); got != "Virtual CD: install.iso" {
		t.Errorf("unexpected device string %q", got)
	}
	if !devices[1].Empty() {
		t.Errorf("removable disk should be empty: %+v", devices[1])
	}
}

func TestMountVirtual(t *testing.T) {
	fc := &fakeClient{handler: func(method, path string, body any) (*Response, error) {
		return &Response{Status: 204}, nil
	}}
	c := testController(fc)

	reply, err := c.MountVirtual("http://repo/install.iso")
	if err != nil {
		t.Fatalf("MountVirtual failed: %v", err)
	}
	if !reply.Succeeded {
		t.Errorf("expected success, got %+v", reply)
	}
	payload := fc.calls[0].body.(map[string]any)
	if payload["Image"] != "http://repo/install.iso" || payload["Inserted"] != true || payload["WriteProtected"] != true {
		t.Errorf("unexpected insert payload: %v", payload)
	}
}

func TestNextBootVirtualStagesImportJob(t *testing.T) {
	fc := &fakeClient{handler: func(method, path string, body any) (*Response, error) {
		if !strings.HasSuffix(path, importConfigAction) {
			t.Errorf("posted to %q, want import action", path)
		}
		return &Response{Status: 202, TaskLocation: "/redfish/v1/TaskService/Tasks/JID_901"}, nil
	}}
	c := testController(fc)

	reply, err := c.NextBootVirtual()
	if err != nil {
		t.Fatalf("NextBootVirtual failed: %v", err)
	}
	if !reply.Succeeded || reply.Job != 901 {
		t.Fatalf("expected staged job 901, got %+v", reply)
	}
	payload := fc.calls[0].body.(map[string]any)
	buffer, _ := payload["ImportBuffer"].(string)
	if !strings.Contains(buffer, "VCD-DVD") || !strings.Contains(buffer, "BootOnce") {
		t.Errorf("import buffer missing boot override: %s", buffer)
	}
}
