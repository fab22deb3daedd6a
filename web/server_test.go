package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/guslan/ch8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, program []byte, configs ...ServerConfigCb) (*Server, *httptest.Server) {
	t.Helper()

	server := NewServer(ch8.NewCpu(nil), configs...)
	require.NoError(t, server.LoadProgram(program))
	require.NoError(t, server.Runner().Boot())

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	return server, ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()

	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return res.StatusCode, string(body)
}

func TestKeyEndpoint(t *testing.T) {
	server, ts := newTestServer(t, nil)

	status, _ := get(t, ts.URL+"/key?code=b")
	assert.Equal(t, http.StatusOK, status)
	server.Runner().Do(func(cpu *ch8.Cpu) {
		assert.True(t, cpu.Key.Holds(0xB))
	})

	status, _ = get(t, ts.URL+"/key?code=zz")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = get(t, ts.URL+"/key?code=10")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestStepEndpoint(t *testing.T) {
	program := []byte{
		// set v0 to 9
		0x60, 0x09,
		// unknown
		0xFF, 0xFF,
	}
	server, ts := newTestServer(t, program)

	status, _ := get(t, ts.URL+"/step")
	assert.Equal(t, http.StatusOK, status)
	server.Runner().Do(func(cpu *ch8.Cpu) {
		assert.Equal(t, byte(9), cpu.V[0])
	})

	status, body := get(t, ts.URL+"/step")
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, body, "decode fault")

	status, _ = get(t, ts.URL+"/reset")
	assert.Equal(t, http.StatusOK, status)
	server.Runner().Do(func(cpu *ch8.Cpu) {
		assert.NoError(t, cpu.Fault())
		assert.Equal(t, uint16(ch8.StartOfProgram), cpu.Pc)
	})
}

func TestStartStopEndpoints(t *testing.T) {
	server, ts := newTestServer(t, nil)
	assert.False(t, server.Runner().IsRunning())

	get(t, ts.URL+"/start")
	assert.True(t, server.Runner().IsRunning())

	get(t, ts.URL+"/stop")
	assert.False(t, server.Runner().IsRunning())
}

func TestDisasmEndpoint(t *testing.T) {
	program := []byte{
		// set v0 to 5
		0x60, 0x05,
		// jump to self
		0x12, 0x02,
	}
	_, ts := newTestServer(t, program)

	status, body := get(t, ts.URL+"/disasm")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "200: 6005  LD V0, 0x05\n202: 1202  JP 0x202\n", body)
}

func TestDisplayPushesCurrentFrame(t *testing.T) {
	program := []byte{
		// I = glyph of v0 (0)
		0xF0, 0x29,
		// draw
		0xD0, 0x05,
	}
	server, ts := newTestServer(t, program)
	require.NoError(t, server.Runner().StepOnce())
	require.NoError(t, server.Runner().StepOnce())

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/display"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	kind, frame, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, kind)

	screen := ch8.Unpack(frame)
	assert.True(t, screen[0][0])
	assert.True(t, screen[0][3])
	assert.False(t, screen[1][1])
}

func TestTrimZeros(t *testing.T) {
	assert.Equal(t, []byte{0x60, 0x05}, trimZeros([]byte{0x60, 0x05, 0x00, 0x00}))
	assert.Equal(t, []byte{0x12, 0x00}, trimZeros([]byte{0x12, 0x00, 0x00, 0x00}))
	assert.Empty(t, trimZeros([]byte{0x00, 0x00}))
}

func TestLoopRestartsAfterExit(t *testing.T) {
	program := []byte{
		// add to v1 1
		0x71, 0x01,
		// exit
		0x00, 0x00,
	}
	server, ts := newTestServer(t, program)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		server.loop(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	stopped := func() bool {
		halted := false
		server.Runner().Do(func(cpu *ch8.Cpu) {
			halted = cpu.Halted()
		})
		return halted && !server.Runner().IsRunning()
	}

	get(t, ts.URL+"/start")
	require.Eventually(t, stopped, time.Second, 5*time.Millisecond)

	get(t, ts.URL+"/reset")
	server.Runner().Do(func(cpu *ch8.Cpu) {
		assert.False(t, cpu.Halted())
		assert.Equal(t, uint(0), cpu.Cycles())
	})

	get(t, ts.URL+"/start")
	require.Eventually(t, stopped, time.Second, 5*time.Millisecond)
	server.Runner().Do(func(cpu *ch8.Cpu) {
		assert.Equal(t, uint(2), cpu.Cycles())
		assert.Equal(t, byte(1), cpu.V[1])
	})
}

func TestLoopRestartsAfterFault(t *testing.T) {
	program := []byte{
		// return with an empty stack
		0x00, 0xEE,
	}
	server, ts := newTestServer(t, program)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		server.loop(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	faulted := func() bool {
		var err error
		server.Runner().Do(func(cpu *ch8.Cpu) {
			err = cpu.Fault()
		})
		return err != nil && !server.Runner().IsRunning()
	}

	get(t, ts.URL+"/start")
	require.Eventually(t, faulted, time.Second, 5*time.Millisecond)

	// a new program is picked up by the next start
	require.NoError(t, server.LoadProgram([]byte{
		// set v2 to 2
		0x62, 0x02,
		// exit
		0x00, 0x00,
	}))
	get(t, ts.URL+"/start")
	require.Eventually(t, func() bool {
		var v2 byte
		halted := false
		server.Runner().Do(func(cpu *ch8.Cpu) {
			v2, halted = cpu.V[2], cpu.Halted()
		})
		return halted && v2 == 2
	}, time.Second, 5*time.Millisecond)
}
