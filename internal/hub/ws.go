package hub

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The socket channel is unauthenticated and open to any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeHTTP upgrades the request to a websocket and registers it.
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error response.
		r.log.Debug().Err(err).Str("remote", req.RemoteAddr).Msg("websocket upgrade failed")
		return
	}
	if _, err := r.Register(conn); err != nil {
		r.log.Debug().Err(err).Msg("register rejected")
	}
}
