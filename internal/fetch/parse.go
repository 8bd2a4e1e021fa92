package fetch

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"runtime"

	"github.com/btcsuite/btcd/wire"
	"github.com/heavycoinlabs/heavyindex-backend/pkg/workerpool"
)

// record is a candidate payload located during the scan phase.
type record struct {
	data []byte
	size uint32
}

// parseBlocks scans a block-store blob for [magic][le length][payload]
// records and decodes every candidate payload in parallel. The order of the
// decoded set matches scan order, but callers must not rely on it: blocks
// are re-associated downstream by identity hash, not position.
//
// Two structural skips keep the scan resilient without failing the blob:
//   - a word that is not the magic constant advances the scan by a single
//     byte, resynchronizing against stray or misaligned data;
//   - a record whose payload position itself starts with the magic constant
//     is an interrupted write that persisted only magic and length, so the
//     phantom payload is discarded and scanning resumes at that position.
//
// A payload that fails to decode, or one that extends past the end of the
// blob, is fatal for the whole blob.
func parseBlocks(ctx context.Context, blob []byte, magic uint32) ([]sizedBlock, error) {
	var candidates []record

	pos := 0
	for pos+4 <= len(blob) {
		if binary.LittleEndian.Uint32(blob[pos:]) != magic {
			pos++
			continue
		}
		pos += 4

		if pos+4 > len(blob) {
			break
		}
		length := binary.LittleEndian.Uint32(blob[pos:])
		pos += 4

		start := pos
		if start+4 > len(blob) {
			break
		}
		if binary.LittleEndian.Uint32(blob[start:]) == magic {
			continue
		}

		end := start + int(length)
		if end > len(blob) {
			return nil, fmt.Errorf("block record at offset %d overruns blob end: %d payload bytes declared, %d available",
				start, length, len(blob)-start)
		}
		candidates = append(candidates, record{data: blob[start:end], size: length})
		pos = end
	}

	blocks := make([]sizedBlock, len(candidates))
	indexes := make([]int, len(candidates))
	for i := range indexes {
		indexes[i] = i
	}

	// Decoding is CPU-bound; candidates are immutable and disjoint, so the
	// workers share no mutable state beyond their own output slot.
	err := workerpool.Process(ctx, runtime.GOMAXPROCS(0), indexes, func(_ context.Context, i int) error {
		block := &wire.MsgBlock{}
		if err := block.Deserialize(bytes.NewReader(candidates[i].data)); err != nil {
			return fmt.Errorf("decode block record %d: %w", i, err)
		}
		blocks[i] = sizedBlock{block: block, size: candidates[i].size}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return blocks, nil
}
