package medallion

import (
	"fmt"
	"sync"

	"github.com/cloudwego/base64x"
	"github.com/goccy/go-json"
)

// segmentPool holds scratch buffers for base64 segment work so the hot
// sign/parse path does not allocate per call.
var segmentPool = sync.Pool{
	New: func() interface{} {
		return make([]byte, 0, 512)
	},
}

// encodeSegment base64url-encodes data without padding.
func encodeSegment(data []byte) string {
	buf := segmentPool.Get().([]byte) //nolint:errcheck // sync.Pool.Get never returns error
	origBuf := buf
	defer func() {
		segmentPool.Put(origBuf[:0]) //nolint:staticcheck // slice is converted to interface{} which is correct
	}()

	encodedLen := base64x.RawURLEncoding.EncodedLen(len(data))
	if cap(buf) < encodedLen {
		buf = make([]byte, encodedLen)
	}
	buf = buf[:encodedLen]

	base64x.RawURLEncoding.Encode(buf, data)
	return string(buf)
}

// decodeSegment base64url-decodes a segment, rejecting padding and characters
// outside the url-safe alphabet.
func decodeSegment(encoded string) ([]byte, error) {
	buf := segmentPool.Get().([]byte) //nolint:errcheck // sync.Pool.Get never returns error
	origBuf := buf
	defer func() {
		segmentPool.Put(origBuf[:0]) //nolint:staticcheck // slice is converted to interface{} which is correct
	}()

	decodedLen := base64x.RawURLEncoding.DecodedLen(len(encoded))
	if cap(buf) < decodedLen {
		buf = make([]byte, decodedLen)
	}
	buf = buf[:decodedLen]

	n, err := base64x.RawURLEncoding.Decode(buf, []byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	result := make([]byte, n)
	copy(result, buf[:n])
	return result, nil
}

// marshalMerged renders fixed and extra as one flat JSON object. Both must
// marshal to objects; on a key collision the extra field wins. A nil extra
// merges nothing. Raw messages keep field values byte-exact through the
// merge, and map marshaling gives the sorted key ordering the canonical
// encoding requires, so the merged and unmerged paths agree.
func marshalMerged(fixed, extra interface{}) ([]byte, error) {
	base, err := json.Marshal(fixed)
	if err != nil {
		return nil, err
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, fmt.Errorf("%w: fixed fields are not a JSON object", ErrEncoding)
	}

	if extra != nil {
		extraJSON, err := json.Marshal(extra)
		if err != nil {
			return nil, err
		}
		var extraMap map[string]json.RawMessage
		if err := json.Unmarshal(extraJSON, &extraMap); err != nil {
			return nil, fmt.Errorf("%w: extension fields are not a JSON object", ErrEncoding)
		}
		for k, v := range extraMap {
			merged[k] = v
		}
	}

	return json.Marshal(merged)
}
