package websocket

import "errors"

var ErrClientQueueFull = errors.New("client send queue is full")
