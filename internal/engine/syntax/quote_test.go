package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteString(t *testing.T) {
	assert.Equal(t, `""`, QuoteString(""))
	assert.Equal(t, `"it's"`, QuoteString("it's"))
	assert.Equal(t, `"a\"b"`, QuoteString(`a"b`))
	assert.Equal(t, `"tab\there"`, QuoteString("tab\there"))
	assert.Equal(t, `"a\\b"`, QuoteString(`a\b`))
	assert.Equal(t, `"\n\r\b\f\v"`, QuoteString("\n\r\b\f\v"))
	assert.Equal(t, `"\u0000\u001b\u007f"`, QuoteString("\x00\x1b\x7f"))
	assert.Equal(t, `"\u2028\u2029"`, QuoteString("\u2028\u2029"))
	assert.Equal(t, `"café 😀"`, QuoteString("café \U0001F600"))

	assert.Equal(t, `'it\'s "x"'`, QuoteSingle(`it's "x"`))
	assert.Equal(t, `'npm$namespace$NS'`, QuoteSingle("npm$namespace$NS"))
}
