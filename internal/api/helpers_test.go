package api

import (
	"bytes"
	"io"
)

func jsonBody(b []byte) io.Reader {
	return bytes.NewReader(b)
}
