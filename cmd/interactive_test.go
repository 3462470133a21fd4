package cmd

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeController struct {
	mu      sync.Mutex
	stopped int
	runNow  int
	accept  bool
}

func (c *fakeController) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped++
}

func (c *fakeController) RunNow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runNow++
	return c.accept
}

func TestRunInteractive(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		accept      bool
		wantStopped int
		wantRunNow  int
		wantOutput  []string
	}{
		{
			name:        "quit",
			input:       "q\n",
			wantStopped: 1,
		},
		{
			name:        "check now then quit",
			input:       "n\nn\nq\nn\n",
			accept:      true,
			wantStopped: 1,
			wantRunNow:  2,
		},
		{
			name:        "unknown input is echoed",
			input:       "x\nq\n",
			wantStopped: 1,
			wantOutput:  []string{"[x]?"},
		},
		{
			name:       "pending check is reported",
			input:      "n\n",
			accept:     false,
			wantRunNow: 1,
			wantOutput: []string{"already pending"},
		},
		{
			name:  "end of input returns without stopping",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeController{accept: tt.accept}
			var out bytes.Buffer

			runInteractive(context.Background(), strings.NewReader(tt.input), &out, c)

			assert.Equal(t, tt.wantStopped, c.stopped)
			assert.Equal(t, tt.wantRunNow, c.runNow)
			for _, want := range tt.wantOutput {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestRunInteractive_ContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := &fakeController{}

	// A reader that never returns keeps the scanner blocked.
	r, release := newBlockingReader()
	defer release()
	done := make(chan struct{})
	go func() {
		runInteractive(ctx, r, &bytes.Buffer{}, c)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runInteractive did not return after cancellation")
	}
	assert.Equal(t, 0, c.stopped)
}

type blockingReader struct {
	block chan struct{}
}

func newBlockingReader() (*blockingReader, func()) {
	r := &blockingReader{block: make(chan struct{})}
	return r, func() { close(r.block) }
}

func (r *blockingReader) Read(p []byte) (int, error) {
	<-r.block
	return 0, nil
}
