package natives

import (
	"fmt"

	"github.com/gorilla/websocket"

	"lumen/internal/value"
)

// wsNatives wires github.com/gorilla/websocket in as four synchronous
// calls. Natives run on the single dispatch thread and must not
// re-enter the VM (spec.md §5), so no background read pump is
// started here; each call does one blocking I/O operation and returns
// (SPEC_FULL.md domain stack).
func wsNatives() []value.NativeDef {
	return []value.NativeDef{
		{Name: "ws_dial", Arity: 1, Fn: wsDial},
		{Name: "ws_send", Arity: 2, Fn: wsSend},
		{Name: "ws_recv", Arity: 1, Fn: wsRecv},
		{Name: "ws_close", Arity: 1, Fn: wsClose},
	}
}

func asWSHandle(native string, v value.Value) (*websocket.Conn, error) {
	if !v.IsObject() {
		return nil, fmt.Errorf("native %q expects a websocket handle", native)
	}
	h, ok := v.AsObject().(*value.HandleObject)
	if !ok || h.HandleKind != "ws" {
		return nil, fmt.Errorf("native %q expects a websocket handle", native)
	}
	return h.Resource.(*websocket.Conn), nil
}

func wsDial(args []value.Value) (value.Value, error) {
	url, err := wantString("ws_dial", args, 0)
	if err != nil {
		return value.Nil(), err
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return value.Nil(), err
	}
	return value.Obj(value.NewHandle("ws", conn)), nil
}

func wsSend(args []value.Value) (value.Value, error) {
	conn, err := asWSHandle("ws_send", args[0])
	if err != nil {
		return value.Nil(), err
	}
	msg, err := wantString("ws_send", args, 1)
	if err != nil {
		return value.Nil(), err
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		return value.Nil(), err
	}
	return value.Nil(), nil
}

func wsRecv(args []value.Value) (value.Value, error) {
	conn, err := asWSHandle("ws_recv", args[0])
	if err != nil {
		return value.Nil(), err
	}
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return value.Nil(), err
	}
	return value.Obj(value.NewString(string(msg))), nil
}

func wsClose(args []value.Value) (value.Value, error) {
	conn, err := asWSHandle("ws_close", args[0])
	if err != nil {
		return value.Nil(), err
	}
	return value.Nil(), conn.Close()
}
