package irc

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 5 * time.Second
	maxLineLen   = 8 << 10
)

// ErrLineTooLong — сервер прислал строку длиннее maxLineLen.
var ErrLineTooLong = errors.New("irc: line too long")

// lineConn — транспорт, который читает и пишет строки IRC целиком.
type lineConn interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	Close() error
}

type dialFunc func(ctx context.Context, server string) (lineConn, error)

// dial выбирает транспорт по схеме адреса:
// irc://host:port, ircs://host:port, ws://…, wss://… или просто host:port.
func dial(ctx context.Context, server string) (lineConn, error) {
	if !strings.Contains(server, "://") {
		server = "irc://" + server
	}
	u, err := url.Parse(server)
	if err != nil {
		return nil, fmt.Errorf("parse server address: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
		return dialWS(ctx, u.String())
	case "irc":
		return dialTCP(ctx, hostPort(u.Host, "6667"), nil)
	case "ircs":
		host := hostPort(u.Host, "6697")
		name, _, _ := net.SplitHostPort(host)
		return dialTCP(ctx, host, &tls.Config{ServerName: name, MinVersion: tls.VersionTLS12})
	}
	return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
}

func hostPort(h, port string) string {
	if _, _, err := net.SplitHostPort(h); err == nil {
		return h
	}
	return net.JoinHostPort(h, port)
}

// ========================= tcp / tls =========================

type tcpConn struct {
	c   net.Conn
	r   *bufio.Reader
	wmu sync.Mutex
}

func dialTCP(ctx context.Context, addr string, tlsCfg *tls.Config) (*tcpConn, error) {
	d := &net.Dialer{Timeout: 15 * time.Second, KeepAlive: 30 * time.Second}
	var (
		c   net.Conn
		err error
	)
	if tlsCfg != nil {
		td := &tls.Dialer{NetDialer: d, Config: tlsCfg}
		c, err = td.DialContext(ctx, "tcp", addr)
	} else {
		c, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, err
	}
	return newTCPConn(c), nil
}

func newTCPConn(c net.Conn) *tcpConn {
	return &tcpConn{c: c, r: bufio.NewReaderSize(c, maxLineLen)}
}

// ReadLine: строка длиннее maxLineLen не копится в памяти, а рвёт соединение,
// как SetReadLimit у websocket.
func (t *tcpConn) ReadLine() (string, error) {
	line, err := t.r.ReadSlice('\n')
	if errors.Is(err, bufio.ErrBufferFull) {
		return "", fmt.Errorf("%w: more than %d bytes", ErrLineTooLong, maxLineLen)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(line), "\r\n"), nil
}

func (t *tcpConn) WriteLine(line string) error {
	t.wmu.Lock()
	defer t.wmu.Unlock()
	_ = t.c.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, err := t.c.Write([]byte(line + "\r\n"))
	return err
}

func (t *tcpConn) Close() error { return t.c.Close() }

// ========================= websocket =========================

// wsConn — IRC поверх WebSocket: одно текстовое сообщение на строку,
// но на всякий случай режем и пачки строк.
type wsConn struct {
	c       *websocket.Conn
	wmu     sync.Mutex
	pending []string
}

func dialWS(ctx context.Context, u string) (*wsConn, error) {
	d := *websocket.DefaultDialer
	d.Subprotocols = []string{"text.ircv3.net"}
	c, _, err := d.DialContext(ctx, u, nil)
	if err != nil {
		return nil, err
	}
	c.SetReadLimit(maxLineLen)
	return &wsConn{c: c}, nil
}

func (w *wsConn) ReadLine() (string, error) {
	for len(w.pending) == 0 {
		_, data, err := w.c.ReadMessage()
		if err != nil {
			return "", err
		}
		for _, l := range strings.Split(string(data), "\n") {
			if l = strings.TrimRight(l, "\r"); l != "" {
				w.pending = append(w.pending, l)
			}
		}
	}
	line := w.pending[0]
	w.pending = w.pending[1:]
	return line, nil
}

func (w *wsConn) WriteLine(line string) error {
	w.wmu.Lock()
	defer w.wmu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(writeTimeout))
	return w.c.WriteMessage(websocket.TextMessage, []byte(line))
}

func (w *wsConn) Close() error {
	w.wmu.Lock()
	_ = w.c.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "closing"),
		time.Now().Add(500*time.Millisecond))
	w.wmu.Unlock()
	return w.c.Close()
}
