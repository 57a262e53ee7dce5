package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderIntegers(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07})

	b, err := r.U8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x01), b)

	v16, err := r.U16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0203), v16)

	v32, err := r.U32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x04050607), v32)

	assert.Equal(t, 7, r.Pos())
	assert.Equal(t, 0, r.Remaining())

	_, err = r.U8()
	assert.ErrorIs(t, err, ErrEndOfBuffer)
}

func TestReaderShortReads(t *testing.T) {
	r := NewReader([]byte{0xAA})
	_, err := r.U16()
	assert.ErrorIs(t, err, ErrEndOfBuffer)

	// position unchanged after a failed read
	assert.Equal(t, 0, r.Pos())

	_, err = r.Bytes(2)
	assert.ErrorIs(t, err, ErrEndOfBuffer)

	err = r.Skip(2)
	assert.ErrorIs(t, err, ErrEndOfBuffer)
}

func TestReaderSeek(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	require.NoError(t, r.Seek(2))
	b, err := r.U8()
	require.NoError(t, err)
	assert.Equal(t, uint8(3), b)

	assert.ErrorIs(t, r.Seek(5), ErrEndOfBuffer)
	assert.ErrorIs(t, r.Seek(-1), ErrEndOfBuffer)
}

func TestReaderWindow(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4, 5})
	require.NoError(t, r.Skip(1))

	restore, err := r.OpenWindow(2)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Remaining())

	// reads may not cross the window boundary
	_, err = r.Bytes(3)
	assert.ErrorIs(t, err, ErrEndOfBuffer)

	_, err = r.Bytes(2)
	require.NoError(t, err)
	require.NoError(t, r.CloseWindow(restore))

	// bound restored to the full buffer
	assert.Equal(t, 2, r.Remaining())
}

func TestReaderWindowUnderConsumed(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	restore, err := r.OpenWindow(3)
	require.NoError(t, err)
	require.NoError(t, r.Skip(2))

	err = r.CloseWindow(restore)
	assert.ErrorIs(t, err, ErrBadRData)
}

func TestReaderWindowTooLarge(t *testing.T) {
	r := NewReader([]byte{1, 2})
	_, err := r.OpenWindow(3)
	assert.ErrorIs(t, err, ErrEndOfBuffer)
}

func TestWriter(t *testing.T) {
	buf := make([]byte, 9)
	w := NewWriter(buf)

	require.NoError(t, w.U8(0x01))
	require.NoError(t, w.U16(0x0203))
	require.NoError(t, w.U32(0x04050607))
	require.NoError(t, w.Bytes([]byte{0x08, 0x09}))
	assert.Equal(t, 9, w.Len())
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}, buf)

	assert.ErrorIs(t, w.U8(0xFF), ErrBufferTooShort)
}

func TestWriterTooShort(t *testing.T) {
	w := NewWriter(make([]byte, 3))
	require.NoError(t, w.U16(0xAABB))
	assert.ErrorIs(t, w.U16(0xCCDD), ErrBufferTooShort)
	// the already-written prefix stays intact
	assert.Equal(t, 2, w.Len())
}
