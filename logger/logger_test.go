// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package logger_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/docsift/docsift/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logMsg struct {
	Level   string `json:"level"`
	Message string `json:"msg"`
}

func TestNew(t *testing.T) {
	cases := []struct {
		desc  string
		level string
		err   bool
	}{
		{
			desc:  "valid info level",
			level: "info",
			err:   false,
		},
		{
			desc:  "valid debug level",
			level: "debug",
			err:   false,
		},
		{
			desc:  "valid warn level",
			level: "warn",
			err:   false,
		},
		{
			desc:  "valid error level",
			level: "error",
			err:   false,
		},
		{
			desc:  "invalid level",
			level: "invalid",
			err:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := logger.New(&bytes.Buffer{}, tc.level)
			assert.Equal(t, tc.err, err != nil, fmt.Sprintf("%s: unexpected error %v", tc.desc, err))
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.New(&buf, "warn")
	require.Nil(t, err)

	log.Info("dropped")
	assert.Empty(t, buf.String(), "info message should be dropped at warn level")

	log.Warn("kept")
	var out logMsg
	require.Nil(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "WARN", out.Level)
	assert.Equal(t, "kept", out.Message)
}
