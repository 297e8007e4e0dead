package sidra

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// decodeTable reads a JSON array of flat objects and returns it as rows.
// The first object's keys, in document order, form the header row. When
// labelRow is set the first object is a header of human readable labels and
// its values become the header instead. Later objects are aligned to the
// header by key; absent keys yield "".
func decodeTable(r io.Reader, labelRow bool) ([][]string, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	var (
		keys  []string
		index map[string]int
		rows  [][]string
	)

	for dec.More() {
		obj, err := readObject(dec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(rows), err)
		}

		if keys == nil {
			keys = make([]string, len(obj))
			index = make(map[string]int, len(obj))
			for i, kv := range obj {
				keys[i] = kv.key
				index[kv.key] = i
			}
			if labelRow {
				labels := make([]string, len(obj))
				for i, kv := range obj {
					labels[i] = kv.value
				}
				rows = append(rows, labels)
				continue
			}
			rows = append(rows, append([]string(nil), keys...))
		}

		row := make([]string, len(keys))
		for _, kv := range obj {
			if i, ok := index[kv.key]; ok {
				row[i] = kv.value
			}
		}
		rows = append(rows, row)
	}

	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}

	return rows, nil
}

type pair struct {
	key   string
	value string
}

func readObject(dec *json.Decoder) ([]pair, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var out []pair
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}

		tok, err = dec.Token()
		if err != nil {
			return nil, err
		}
		value, err := scalar(tok)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		out = append(out, pair{key: key, value: value})
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return out, nil
}

func scalar(tok json.Token) (string, error) {
	switch v := tok.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unexpected nested value %v", v)
	}
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
