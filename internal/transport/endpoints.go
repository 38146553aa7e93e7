// internal/transport/endpoints.go
package transport

import (
	"github.com/google/gousb"
)

// ResolveEndpoints determines the OUT/IN endpoint addresses and interface
// number for a device: from the config when both endpoint and interface are
// pinned (IN derived as endpoint | 0x80), otherwise by scanning the active
// configuration descriptor for the first interface exposing one bulk-IN and
// one bulk-OUT endpoint.
func ResolveEndpoints(cfg Config, desc gousb.ConfigDesc) (outAddr, inAddr uint8, intfNum int, err error) {
	if cfg.Endpoint != nil && cfg.Interface != nil {
		out := *cfg.Endpoint
		return out, out | 0x80, int(*cfg.Interface), nil
	}
	return discoverEndpoints(desc)
}

// discoverEndpoints scans interface descriptors for the first alt setting
// with a bulk endpoint in each direction.
func discoverEndpoints(desc gousb.ConfigDesc) (outAddr, inAddr uint8, intfNum int, err error) {
	for _, intf := range desc.Interfaces {
		for _, alt := range intf.AltSettings {
			var out, in *uint8
			for _, ep := range alt.Endpoints {
				if ep.TransferType != gousb.TransferTypeBulk {
					continue
				}
				addr := uint8(ep.Address)
				if ep.Direction == gousb.EndpointDirectionIn {
					in = &addr
				} else {
					out = &addr
				}
			}
			if out != nil && in != nil {
				return *out, *in, intf.Number, nil
			}
		}
	}
	return 0, 0, 0, errorf("discover", "no suitable endpoints or interface found")
}
