// Package transport provides lockstep request/reply endpoints.
//
// An endpoint is either bound (the responder side) or connected (the
// requester side). Both exchange UTF-8 text frames and enforce strict turn
// taking: a connected endpoint must alternate Send and Recv, a bound one
// Recv and Send. Skipping a turn would desynchronize the peers, so
// out-of-turn calls are rejected with ErrLockstep instead.
//
// # Addressing
//
//	tcp://host:port   TCP; bind to tcp://*:port for all interfaces
//	ipc:///run/x.sock unix domain socket
//	inproc://name     in-process, backed by net.Pipe
//
// # Stack
//
//	┌────────────────────────────────┐
//	│   UTF-8 command / reply text   │
//	├────────────────────────────────┤
//	│   Length-Prefix Framing (4B)   │
//	├────────────────────────────────┤
//	│   TCP | unix socket | net.Pipe │
//	└────────────────────────────────┘
//
// A bound endpoint accepts any number of peers. Their requests are queued
// into a single receive stream and every reply goes to the peer whose
// request was received last.
package transport
