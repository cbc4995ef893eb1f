// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package apiutil_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docsift/docsift/logger"
	"github.com/docsift/docsift/pkg/apiutil"
	"github.com/docsift/docsift/pkg/errors"
)

func TestLoggingErrorEncoder(t *testing.T) {
	cases := []struct {
		desc   string
		err    error
		logged bool
	}{
		{
			desc:   "validation error is logged",
			err:    errors.Wrap(apiutil.ErrValidation, apiutil.ErrMissingFile),
			logged: true,
		},
		{
			desc:   "service error is not logged",
			err:    errors.New("classification failed"),
			logged: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := logger.New(&buf, "error")
			assert.Nil(t, err)

			encoded := false
			enc := apiutil.LoggingErrorEncoder(log, func(_ context.Context, _ error, _ http.ResponseWriter) {
				encoded = true
			})

			enc(context.Background(), tc.err, httptest.NewRecorder())
			assert.True(t, encoded)
			assert.Equal(t, tc.logged, buf.Len() > 0)
		})
	}
}
