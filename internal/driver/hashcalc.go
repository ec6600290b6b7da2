package driver

import (
	"crypto/sha256"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// combineDigest: H(part1 || part2 ...). Порядок частей значим.
func combineDigest(parts ...Digest) Digest {
	h := sha256.New()
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// cacheKey identifies a unit result: same bytes under the same
// output-affecting configuration give the same key.
func cacheKey(content, config [32]byte) Digest {
	return combineDigest(Digest(content), Digest(config))
}
