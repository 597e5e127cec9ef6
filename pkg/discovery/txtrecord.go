package discovery

import (
	"fmt"
	"sort"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeTXT creates the TXT records for a responder.
func EncodeTXT(info *Info) TXTRecordMap {
	return TXTRecordMap{
		TXTKeyFamily: info.Family,
		TXTKeyName:   info.Name,
		TXTKeyProto:  ProtocolVersion,
	}
}

// DecodeTXT parses responder TXT records. Records of another protocol
// version are rejected.
func DecodeTXT(txt TXTRecordMap) (name, family string, err error) {
	proto, ok := txt[TXTKeyProto]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyProto)
	}
	if proto != ProtocolVersion {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedProto, proto)
	}
	family, ok = txt[TXTKeyFamily]
	if !ok || family == "" {
		return "", "", fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyFamily)
	}
	name, ok = txt[TXTKeyName]
	if !ok || name == "" {
		return "", "", fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyName)
	}
	return name, family, nil
}

// TXTRecordsToStrings converts a TXTRecordMap to sorted "key=value" strings.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, k+"="+v)
	}
	sort.Strings(result)
	return result
}

// StringsToTXTRecords parses "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		k, v, found := strings.Cut(s, "=")
		if found {
			txt[k] = v
		} else if k != "" {
			// Key without value (boolean flag)
			txt[k] = ""
		}
	}
	return txt
}

// ValidateInstanceName checks if an instance name is valid for mDNS.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrMissingRequired)
	}
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}
