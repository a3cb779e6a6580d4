// Package hub tracks live observer connections and pushes frames to them.
//
// Two kinds of traffic share the connections but not the code path:
//
//   - HandleEvent encodes committed center change events from the bus.
//   - Relay echoes any JSON a client sends to every open client, sender
//     included. It is a generic pass-through and knows nothing of bookings.
//
// Each client has a bounded outbound queue and a single writer goroutine.
// A client whose queue is full or whose write fails moves to Closing and is
// removed asynchronously; the broadcast continues with the others.
package hub
