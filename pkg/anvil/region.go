package anvil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zlib"

	"github.com/arnisgo/arnis/pkg/biome"
	"github.com/arnisgo/arnis/pkg/coord"
	"github.com/arnisgo/arnis/pkg/store"
)

const (
	sectorSize      = 4096
	headerSectors   = 2
	compressionZlib = byte(2)
	chunksPerRegion = 32 * 32
)

// WriteRegion writes one modified region to dir/region/r.<rx>.<rz>.mca:
// it reads any existing file, merges touched chunks, carries
// through untouched ones, and emits a minimal chunk for positions with
// neither prior data nor a generator touch. The file is fsynced before
// returning.
//
// A failure reading the existing file is reported as warning (a
// RegionReadError) rather than aborting: the region is written as if no
// prior data existed for it. A failure anywhere in encoding or writing is
// fatal for this region and returned as err (a RegionWriteError).
//
// sel picks the per-chunk biome tag and fallback ground surface; a nil
// sel falls back to minecraft:plains everywhere.
func WriteRegion(dir string, rp coord.RegionPos, region *store.Region, baseY int32, sel *biome.Selector) (warning, err error) {
	regionDir := filepath.Join(dir, "region")
	if err := os.MkdirAll(regionDir, 0o755); err != nil {
		return nil, &RegionWriteError{RX: rp.X, RZ: rp.Z, Cause: fmt.Errorf("create region dir: %w", err)}
	}
	path := filepath.Join(regionDir, fmt.Sprintf("r.%d.%d.mca", rp.X, rp.Z))

	existing, readErr := readExistingChunks(path)
	if readErr != nil {
		warning = &RegionReadError{RX: rp.X, RZ: rp.Z, Cause: readErr}
		existing = map[int]existingChunk{}
	}

	payloads := make([][]byte, chunksPerRegion)
	for idx := 0; idx < chunksPerRegion; idx++ {
		lx := int32(idx % 32)
		lz := int32(idx / 32)
		cx := rp.X*32 + lx
		cz := rp.Z*32 + lz
		cp := coord.ChunkPos{X: cx, Z: cz}

		chunk, touched := region.ChunkIfPresent(cp)
		prior, hadPrior := existing[idx]

		var kind []biome.Kind
		if sel != nil {
			kind = []biome.Kind{sel.At(cx*16+8, cz*16+8)}
		}

		var rawNBT []byte
		switch {
		case touched:
			encoded, err := EncodeChunk(chunk, baseY, priorBytes(prior, hadPrior), kind...)
			if err != nil {
				return warning, &RegionWriteError{RX: rp.X, RZ: rp.Z, Cause: fmt.Errorf("encode chunk (%d,%d): %w", cx, cz, err)}
			}
			rawNBT = encoded
		case hadPrior:
			payloads[idx] = prior.compressed
			continue
		default:
			root := minimalChunk(cx, cz, baseY, kind...)
			encoded, err := encodeRoot(root)
			if err != nil {
				return warning, &RegionWriteError{RX: rp.X, RZ: rp.Z, Cause: fmt.Errorf("encode minimal chunk (%d,%d): %w", cx, cz, err)}
			}
			rawNBT = encoded
		}

		compressed, err := compressZlib(rawNBT)
		if err != nil {
			return warning, &RegionWriteError{RX: rp.X, RZ: rp.Z, Cause: fmt.Errorf("compress chunk (%d,%d): %w", cx, cz, err)}
		}
		payloads[idx] = compressed
	}

	if err := writeRegionFile(path, payloads); err != nil {
		return warning, &RegionWriteError{RX: rp.X, RZ: rp.Z, Cause: err}
	}
	return warning, nil
}

type existingChunk struct {
	compressed []byte
}

func priorBytes(c existingChunk, had bool) []byte {
	if !had {
		return nil
	}
	raw, err := decompressZlib(c.compressed)
	if err != nil {
		return nil
	}
	return raw
}

// readExistingChunks parses an existing region file's header and slices
// out each chunk's still-compressed payload, keyed by local chunk index.
func readExistingChunks(path string) (map[int]existingChunk, error) {
	out := make(map[int]existingChunk)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open existing region: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read existing region: %w", err)
	}
	if len(data) < 2*sectorSize {
		return out, nil
	}

	locations := data[:sectorSize]
	for idx := 0; idx < chunksPerRegion; idx++ {
		off := idx * 4
		loc := binary.BigEndian.Uint32(locations[off : off+4])
		if loc == 0 {
			continue
		}
		sectorOffset := int(loc >> 8)
		sectorCount := int(loc & 0xFF)
		start := sectorOffset * sectorSize
		end := start + sectorCount*sectorSize
		if start < 2*sectorSize || end > len(data) || start >= end {
			continue
		}
		length := binary.BigEndian.Uint32(data[start : start+4])
		compression := data[start+4]
		if compression != compressionZlib {
			continue
		}
		payloadStart := start + 5
		payloadEnd := start + 4 + int(length)
		if payloadEnd > len(data) || payloadStart > payloadEnd {
			continue
		}
		out[idx] = existingChunk{compressed: data[payloadStart:payloadEnd]}
	}
	return out, nil
}

// writeRegionFile assembles the canonical 8 KiB header plus chunk data and
// writes it atomically, fsyncing before the final rename.
func writeRegionFile(path string, payloads [][]byte) error {
	locations := make([]byte, sectorSize)
	timestamps := make([]byte, sectorSize)

	var dataBuf bytes.Buffer
	currentSector := uint32(headerSectors)
	now := uint32(time.Now().Unix())

	for idx, compressed := range payloads {
		if compressed == nil {
			continue
		}
		payloadLen := uint32(len(compressed)) + 1
		totalLen := 4 + payloadLen
		sectorCount := (totalLen + sectorSize - 1) / sectorSize
		if sectorCount > 255 {
			return fmt.Errorf("chunk %d too large: %d sectors", idx, sectorCount)
		}

		off := idx * 4
		binary.BigEndian.PutUint32(locations[off:off+4], (currentSector<<8)|sectorCount)
		binary.BigEndian.PutUint32(timestamps[off:off+4], now)

		var header [5]byte
		binary.BigEndian.PutUint32(header[0:4], payloadLen)
		header[4] = compressionZlib
		dataBuf.Write(header[:])
		dataBuf.Write(compressed)

		padded := int(sectorCount) * sectorSize
		if pad := padded - int(totalLen); pad > 0 {
			dataBuf.Write(make([]byte, pad))
		}
		currentSector += sectorCount
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp region file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmp)
	}()

	if _, err := f.Write(locations); err != nil {
		return fmt.Errorf("write locations: %w", err)
	}
	if _, err := f.Write(timestamps); err != nil {
		return fmt.Errorf("write timestamps: %w", err)
	}
	if _, err := f.Write(dataBuf.Bytes()); err != nil {
		return fmt.Errorf("write chunk data: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("fsync region file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close region file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename region file: %w", err)
	}
	return nil
}

func compressZlib(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressZlib(compressed []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
