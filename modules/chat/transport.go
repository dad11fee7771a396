package chat

// Transport carries one connection's traffic. Lines is closed by the
// transport when the peer disconnects or the read side fails. Send and Ping
// report write failures; any write failure is fatal to the session that
// owns the transport.
type Transport interface {
	Lines() <-chan string
	Send(payload []byte) error
	Ping() error
}
