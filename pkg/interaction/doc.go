// Package interaction implements the two lockstep roles of the probe
// protocol.
//
// A Requester turns a command into exactly one request frame and exactly
// one reply frame:
//
//	ep, _ := transport.Connect(ctx, "tcp://tank:5557", transport.Config{})
//	req := interaction.NewRequester(ep, &ph.Family, interaction.Options{})
//	resp, err := req.Call(ctx, ph.Read())
//
// A Responder owns a bound endpoint and a device and answers every request
// it receives, in receipt order:
//
//	ep, _ := transport.Bind(ctx, "tcp://*:5557", transport.Config{})
//	rsp := interaction.NewResponder(ep, &ph.Family, ph.NewDevice(chip), interaction.Options{})
//	err := rsp.Serve(ctx)
//
// # Failure replies
//
// A request that cannot be decoded or executed is still answered, with a
// failure frame of the form "error <kind> [detail]". Kinds are the wire
// grammar kinds (command_parse, number_parse), request_parse for frames that
// are not UTF-8, the device fault kinds, and internal. The Requester decodes
// failure frames into a *RemoteError, reported as a CommandReply error.
//
// Both roles are generic over a Codec, so the machinery is written once and
// instantiated per sensor family.
package interaction
