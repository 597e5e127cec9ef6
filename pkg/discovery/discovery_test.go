package discovery

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/probenet/probenet-go/pkg/transport"
)

func TestTXTRoundTrip(t *testing.T) {
	info := &Info{Name: "tank-ph", Family: "ph", Port: 5557}

	strs := TXTRecordsToStrings(EncodeTXT(info))
	want := []string{"family=ph", "name=tank-ph", "proto=1"}
	if !reflect.DeepEqual(strs, want) {
		t.Fatalf("TXT strings = %v, want %v", strs, want)
	}

	name, family, err := DecodeTXT(StringsToTXTRecords(strs))
	if err != nil {
		t.Fatalf("DecodeTXT: %v", err)
	}
	if name != "tank-ph" || family != "ph" {
		t.Errorf("decoded name=%q family=%q", name, family)
	}
}

func TestDecodeTXTErrors(t *testing.T) {
	tests := []struct {
		name    string
		records []string
		wantErr error
	}{
		{"MissingProto", []string{"family=ph", "name=a"}, ErrMissingRequired},
		{"OtherProto", []string{"family=ph", "name=a", "proto=2"}, ErrUnsupportedProto},
		{"MissingFamily", []string{"name=a", "proto=1"}, ErrMissingRequired},
		{"EmptyName", []string{"family=ec", "name=", "proto=1"}, ErrMissingRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeTXT(StringsToTXTRecords(tt.records))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DecodeTXT error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStringsToTXTRecords(t *testing.T) {
	txt := StringsToTXTRecords([]string{"a=1", "flag", "b=x=y", ""})
	want := TXTRecordMap{"a": "1", "flag": "", "b": "x=y"}
	if !reflect.DeepEqual(txt, want) {
		t.Errorf("StringsToTXTRecords = %v, want %v", txt, want)
	}
}

func TestInfoFromURL(t *testing.T) {
	info, err := InfoFromURL("tank-ec", "ec", transport.MustParseURL("tcp://0.0.0.0:5558"))
	if err != nil {
		t.Fatalf("InfoFromURL: %v", err)
	}
	if info.Port != 5558 || info.Name != "tank-ec" || info.Family != "ec" {
		t.Errorf("unexpected info %+v", info)
	}

	if _, err := InfoFromURL("x", "ph", transport.MustParseURL("ipc:///tmp/x.sock")); !errors.Is(err, ErrNotTCP) {
		t.Errorf("ipc URL: err = %v, want ErrNotTCP", err)
	}
	if _, err := InfoFromURL("x", "ph", transport.MustParseURL("tcp://127.0.0.1:0")); err == nil {
		t.Error("expected error for unresolved port")
	}
	if _, err := InfoFromURL(strings.Repeat("n", 64), "ph", transport.MustParseURL("tcp://127.0.0.1:1")); !errors.Is(err, ErrInstanceNameTooLong) {
		t.Errorf("long name: err = %v, want ErrInstanceNameTooLong", err)
	}
	if _, err := InfoFromURL("x", "", transport.MustParseURL("tcp://127.0.0.1:1")); !errors.Is(err, ErrMissingRequired) {
		t.Errorf("no family: err = %v, want ErrMissingRequired", err)
	}
}

func TestNewService(t *testing.T) {
	svc, err := newService("tank-rtd", "pi.local.", 5559,
		[]string{"proto=1", "family=rtd", "name=tank-rtd"},
		[]string{"192.168.1.20", "fe80::1"})
	if err != nil {
		t.Fatalf("newService: %v", err)
	}
	if svc.Name != "tank-rtd" || svc.Family != "rtd" || svc.Port != 5559 {
		t.Errorf("unexpected service %+v", svc)
	}
	if got := svc.URL(); got != "tcp://192.168.1.20:5559" {
		t.Errorf("URL() = %q", got)
	}

	svc.Addresses = []string{"fe80::1"}
	if got := svc.URL(); got != "tcp://[fe80::1]:5559" {
		t.Errorf("URL() = %q", got)
	}

	svc.Addresses = nil
	if got := svc.URL(); got != "tcp://pi.local.:5559" {
		t.Errorf("URL() = %q", got)
	}

	if _, err := newService("other", "h", 80, []string{"path=/"}, nil); err == nil {
		t.Error("expected error for foreign TXT records")
	}
	if _, err := newService("x", "h", 0, []string{"proto=1", "family=ph", "name=x"}, nil); err == nil {
		t.Error("expected error for port 0")
	}
}

func TestMergeAndRemoveAddresses(t *testing.T) {
	addrs := mergeAddresses([]string{"10.0.0.1"}, []string{"10.0.0.1", "fe80::2"})
	if !reflect.DeepEqual(addrs, []string{"10.0.0.1", "fe80::2"}) {
		t.Fatalf("mergeAddresses = %v", addrs)
	}

	addrs = removeAddresses(addrs, []string{"10.0.0.1"})
	if !reflect.DeepEqual(addrs, []string{"fe80::2"}) {
		t.Fatalf("removeAddresses = %v", addrs)
	}

	if got := removeAddresses(addrs, []string{"fe80::2"}); len(got) != 0 {
		t.Errorf("removeAddresses = %v, want empty", got)
	}
}

func TestAdvertiseRejectsInvalidInfo(t *testing.T) {
	adv := NewMDNSAdvertiser(DefaultAdvertiserConfig())

	err := adv.Advertise(context.Background(), &Info{Name: "", Family: "ph", Port: 5557})
	if !errors.Is(err, ErrMissingRequired) {
		t.Errorf("Advertise error = %v, want ErrMissingRequired", err)
	}

	if err := adv.Stop("never-advertised"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Stop error = %v, want ErrNotFound", err)
	}
	adv.StopAll()
}
