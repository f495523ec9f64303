// Package websocket pushes live game updates to browser clients.
//
// The package uses a hub-and-spoke model where a central Hub owns every
// connection. Run is the only goroutine that touches the client set;
// ServeWS, the read pumps and Publish talk to it through
// channels. Each client gets a read pump, which only keeps the connection
// alive, and a write pump that drains its send buffer and sends pings.
//
// Message Protocol:
//
// Every frame is one JSON Message:
//
//	{"game_id": "...", "event": "roll", "state": {...}, "data": {...}}
//
// event is one of state_update, new_game, roll, build or grant. state is the
// full game snapshot after the change. data carries event details such as
// the roll distribution or the build result.
//
// Backpressure:
//
// Publishing never blocks the game service, which calls it with the game
// locked. If the hub's queue is full the message is dropped and counted; if
// a client's send buffer is full that client is disconnected.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, nil)
//	})
//
//	svc := service.NewGameService(store, boards, dice, logger, service.WithPublisher(hub))
package websocket
