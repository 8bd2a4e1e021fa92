package fetch

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

const testMagic uint32 = 0xd9c4beaf

func testBlock(t *testing.T, nonce uint32) *wire.MsgBlock {
	t.Helper()
	prev := chainhash.Hash{byte(nonce), 0xaa}
	merkle := chainhash.Hash{0xbb}
	block := wire.NewMsgBlock(wire.NewBlockHeader(1, &prev, &merkle, 0x1d00ffff, nonce))

	tx := wire.NewMsgTx(1)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: *wire.NewOutPoint(&chainhash.Hash{}, 0xffffffff),
		SignatureScript:  []byte{0x01, byte(nonce)},
		Sequence:         0xffffffff,
	})
	tx.AddTxOut(wire.NewTxOut(50_0000_0000, []byte{0x51}))
	require.NoError(t, block.AddTransaction(tx))
	return block
}

func serializeBlock(t *testing.T, block *wire.MsgBlock) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, block.Serialize(&buf))
	return buf.Bytes()
}

func frameRecord(magic uint32, payload []byte) []byte {
	framed := make([]byte, 8, 8+len(payload))
	binary.LittleEndian.PutUint32(framed[0:], magic)
	binary.LittleEndian.PutUint32(framed[4:], uint32(len(payload)))
	return append(framed, payload...)
}

func TestParseBlocks_ValidRecords(t *testing.T) {
	var blob []byte
	for nonce := uint32(1); nonce <= 3; nonce++ {
		blob = append(blob, frameRecord(testMagic, serializeBlock(t, testBlock(t, nonce)))...)
	}

	blocks, err := parseBlocks(context.Background(), blob, testMagic)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	for _, sb := range blocks {
		require.NotNil(t, sb.block)
		require.NotZero(t, sb.size)
	}
}

func TestParseBlocks_ResyncsPastGarbage(t *testing.T) {
	garbage := []byte{0x00, 0x13, 0x37, 0x00, 0x42}

	var blob []byte
	blob = append(blob, garbage...)
	blob = append(blob, frameRecord(testMagic, serializeBlock(t, testBlock(t, 1)))...)
	blob = append(blob, garbage...)
	blob = append(blob, frameRecord(testMagic, serializeBlock(t, testBlock(t, 2)))...)

	blocks, err := parseBlocks(context.Background(), blob, testMagic)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
}

func TestParseBlocks_TruncationGuard(t *testing.T) {
	// An interrupted write persists only magic and length. The next record's
	// magic sits where the phantom payload would start; the guard must not
	// consume it as payload.
	intact := frameRecord(testMagic, serializeBlock(t, testBlock(t, 9)))

	var blob []byte
	blob = append(blob, frameRecord(testMagic, nil)[:8]...) // magic + bogus length, no payload
	binary.LittleEndian.PutUint32(blob[4:], 4096)           // declared length of the phantom payload
	blob = append(blob, intact...)

	blocks, err := parseBlocks(context.Background(), blob, testMagic)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	require.Equal(t, uint32(9), blocks[0].block.Header.Nonce)
}

func TestParseBlocks_PayloadOverrunIsFatal(t *testing.T) {
	payload := serializeBlock(t, testBlock(t, 1))
	framed := frameRecord(testMagic, payload)
	binary.LittleEndian.PutUint32(framed[4:], uint32(len(payload)+1000))

	_, err := parseBlocks(context.Background(), framed, testMagic)
	require.Error(t, err)
	require.Contains(t, err.Error(), "overruns blob end")
}

func TestParseBlocks_UndecodableRecordIsFatal(t *testing.T) {
	junk := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	var blob []byte
	blob = append(blob, frameRecord(testMagic, serializeBlock(t, testBlock(t, 1)))...)
	blob = append(blob, frameRecord(testMagic, junk)...)

	_, err := parseBlocks(context.Background(), blob, testMagic)
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode block record")
}

func TestParseBlocks_ShortAndEmptyBlobs(t *testing.T) {
	for _, blob := range [][]byte{nil, {}, {0x01}, {0x01, 0x02, 0x03}} {
		blocks, err := parseBlocks(context.Background(), blob, testMagic)
		require.NoError(t, err)
		require.Empty(t, blocks)
	}
}

func TestParseBlocks_TrailingFrameHeaderAtEOF(t *testing.T) {
	var blob []byte
	blob = append(blob, frameRecord(testMagic, serializeBlock(t, testBlock(t, 1)))...)
	// Interrupted write at the very end of the file: magic and length only.
	tail := make([]byte, 8)
	binary.LittleEndian.PutUint32(tail[0:], testMagic)
	binary.LittleEndian.PutUint32(tail[4:], 1234)
	blob = append(blob, tail...)

	blocks, err := parseBlocks(context.Background(), blob, testMagic)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
}
