package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/guslan/ch8"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"program exited", nil, 0},
		{"quit key", context.Canceled, 0},
		{"interrupt", fmt.Errorf("loop: %w", context.Canceled), 0},
		{"fault", ch8.Fault{Kind: ch8.StackFault, Reason: "stack underflow"}, 1},
		{"other error", errors.New("display is gone"), 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, exitCode(c.err))
		})
	}
}
