// Package discovery advertises and finds probe responders over mDNS.
//
// Each responder bound to a tcp:// endpoint is announced as one instance of
// the _probenet._tcp service. The instance name is the sensor name and the
// TXT records carry the sensor family and the protocol version:
//
//	tank-ph._probenet._tcp.local.  SRV 0 0 5557 pi.local.
//	                               TXT "family=ph" "name=tank-ph" "proto=1"
//
// ipc:// and inproc:// responders are local to one host or process and are
// never advertised.
//
// # Advertising
//
//	adv := discovery.NewMDNSAdvertiser(discovery.DefaultAdvertiserConfig())
//	info, _ := discovery.InfoFromURL("tank-ph", "ph", ep.URL())
//	err := adv.Advertise(ctx, info)
//	defer adv.StopAll()
//
// # Browsing
//
//	b := discovery.NewMDNSBrowser(discovery.DefaultBrowserConfig())
//	services, _ := b.Browse(ctx)
//	for svc := range services {
//	    fmt.Println(svc.Name, svc.Family, svc.URL())
//	}
package discovery
