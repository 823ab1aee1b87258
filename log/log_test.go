// Copyright (c) 2021 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalHandler(t *testing.T) {
	var buf strings.Builder
	l := NewLogger(NewTerminalHandler(&buf, LevelInfo, false))

	l.Info("block packed", "number", 7, "txs", 3)
	out := buf.String()
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "block packed")
	assert.Contains(t, out, "number=7")
	assert.Contains(t, out, "txs=3")

	buf.Reset()
	l.Debug("should be filtered")
	assert.Empty(t, buf.String())
}

func TestWithContext(t *testing.T) {
	var buf strings.Builder
	SetDefault(NewTerminalHandler(&buf, LevelTrace, false))
	defer SetDefault(DiscardHandler())

	l := WithContext("pkg", "packer")
	l.Info("hello")
	assert.Contains(t, buf.String(), "pkg=packer")

	buf.Reset()
	l.With("block", 1).Warn("slow")
	out := buf.String()
	assert.Contains(t, out, "pkg=packer")
	assert.Contains(t, out, "block=1")
}

func TestLazyResolvesLateHandler(t *testing.T) {
	// loggers declared before SetDefault must pick up the handler set later
	l := WithContext("pkg", "early")

	var buf strings.Builder
	SetDefault(NewTerminalHandler(&buf, LevelTrace, false))
	defer SetDefault(DiscardHandler())

	l.Info("late bound")
	assert.Contains(t, buf.String(), "pkg=early")
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(0))
	assert.Equal(t, LevelInfo, FromLegacyLevel(3))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
}
