package progress_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arnav-k/cdawg/progress"
)

func TestUpdateReportsOnlyOnCadence(t *testing.T) {
	b := progress.New("tokens", 100, 10)

	var buf bytes.Buffer
	b.SetWriter(&buf)

	for i := 0; i < 9; i++ {
		b.Update(1)
	}
	assert.Empty(t, buf.String(), "no line printed before the cadence is hit")

	b.Update(1)
	assert.Contains(t, buf.String(), "10/100")
}

func TestCloseAlwaysPrints(t *testing.T) {
	b := progress.New("tokens", 0, 1000)

	var buf bytes.Buffer
	b.SetWriter(&buf)

	b.Update(3)
	b.Close()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.NotEmpty(t, lines)
	assert.Contains(t, buf.String(), "3")
}
