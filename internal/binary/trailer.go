package binary

// apeFooterSize is the size of an APEv2 tag header or footer.
const apeFooterSize = 32

// StreamEnd returns the offset where the audio stream ends: before a
// trailing ID3v1 tag and an APEv2 tag that precedes it.
func StreamEnd(sr *SafeReader) int64 {
	end := sr.Size()

	if end >= 128 {
		if b, err := sr.ReadBytes(end-128, 3, "ID3v1 marker"); err == nil && string(b) == "TAG" {
			end -= 128
		}
	}

	if end >= apeFooterSize {
		footer, err := sr.ReadBytes(end-apeFooterSize, apeFooterSize, "APE tag footer")
		if err == nil && string(footer[:8]) == "APETAGEX" {
			tagSize := int64(LittleEndian.ByteOrder().Uint32(footer[12:16]))
			if footer[23]&0x80 != 0 { // header present
				tagSize += apeFooterSize
			}
			if tagSize <= end {
				end -= tagSize
			}
		}
	}
	return end
}
