package collect

import (
	"bytes"
	"encoding/json"
	"slices"
	"strconv"

	"github.com/hnlog/hnlog/hn"
)

// Items maps item ID to item. JSON keys are the decimal ID (the HN API and
// prior dlhn-style snapshots use string keys), written in ascending
// numeric order so output is deterministic and diffs cleanly across runs.
type Items map[int]*hn.Item

// IDs returns the item IDs in ascending order.
func (m Items) IDs() []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (m Items) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range m.IDs() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(id)))
		buf.WriteByte(':')
		item, err := json.Marshal(m[id])
		if err != nil {
			return nil, err
		}
		buf.Write(item)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON tolerates malformed entries: keys that are not integers
// and null records are dropped rather than failing the load, so a damaged
// snapshot degrades to cache misses.
func (m *Items) UnmarshalJSON(data []byte) error {
	var raw map[string]*hn.Item
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Items, len(raw))
	for key, item := range raw {
		id, err := strconv.Atoi(key)
		if err != nil || item == nil {
			continue
		}
		out[id] = item
	}
	*m = out
	return nil
}
