package md2

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSBOXIInvertsSBOX(t *testing.T) {
	for i := 0; i < 256; i++ {
		assert.Equal(t, byte(i), SBOXI[SBOX[i]], "SBOXI must invert SBOX at %d", i)
	}
}

// RFC 1319, section A.5, published MD2 test vectors.
func TestKnownVectors(t *testing.T) {
	cases := []struct {
		msg  string
		want string
	}{
		{"", "8350e5a3e24c153df2275c9f80692773"},
		{"a", "32ec01ec4a6dac72c0ab96fb34c0b5d1"},
		{"abc", "da853b0d3f88d99b30283a69e6ded6bb"},
		{"message digest", "ab4f496bfb2a530b219ff33031fe06b0"},
		{"abcdefghijklmnopqrstuvwxyz", "4e8ddff3650292ab5a4108c3aa47940b"},
	}
	for _, c := range cases {
		h := New()
		_, err := h.Write([]byte(c.msg))
		assert.NoError(t, err)
		got := hex.EncodeToString(h.Sum(nil))
		assert.Equal(t, c.want, got, "md2(%q)", c.msg)
	}
}

func TestCompressDeterministic(t *testing.T) {
	var initial [16]byte
	msg := []byte("0123456789abcdef")
	a := Compress(initial, msg)
	b := Compress(initial, msg)
	assert.Equal(t, a, b)
}
