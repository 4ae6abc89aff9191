package queue

import (
    "context"
    "net"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

// silentBroker accepts TCP connections and never speaks AMQP.
func silentBroker(t *testing.T) string {
    t.Helper()
    ln, err := net.Listen("tcp", "127.0.0.1:0")
    require.NoError(t, err)

    var mu sync.Mutex
    var conns []net.Conn
    go func() {
        for {
            c, err := ln.Accept()
            if err != nil {
                return
            }
            mu.Lock()
            conns = append(conns, c)
            mu.Unlock()
        }
    }()
    t.Cleanup(func() {
        _ = ln.Close()
        mu.Lock()
        defer mu.Unlock()
        for _, c := range conns {
            _ = c.Close()
        }
    })
    return ln.Addr().String()
}

func TestPublish_StalledBrokerHonoursDeadline(t *testing.T) {
    p := NewPublisher("amqp://guest:guest@" + silentBroker(t) + "/")
    ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
    defer cancel()

    start := time.Now()
    err := p.PublishStayCheckedOut(ctx, StayCheckedOutEvent{StayID: 42})
    assert.Error(t, err)
    assert.Less(t, time.Since(start), 2*time.Second)
}

func TestPublish_UnreachableBroker(t *testing.T) {
    ln, err := net.Listen("tcp", "127.0.0.1:0")
    require.NoError(t, err)
    addr := ln.Addr().String()
    require.NoError(t, ln.Close())

    ctx, cancel := context.WithTimeout(context.Background(), time.Second)
    defer cancel()
    assert.Error(t, NewPublisher("amqp://guest:guest@"+addr+"/").PublishStayCheckedOut(ctx, StayCheckedOutEvent{StayID: 42}))
}
