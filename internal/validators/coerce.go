package validators

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID is an integer id that also accepts integral floats (1.0) and
// integer strings ("1", " 7 ").
type ID int

func (i *ID) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		raw = []byte(strings.TrimSpace(s))
	}

	n, err := parseInt(string(raw))
	if err != nil {
		return fmt.Errorf("value is not a valid integer: %s", data)
	}
	*i = ID(n)
	return nil
}

func (i ID) Int() int { return int(i) }

func parseInt(s string) (int, error) {
	if n, err := strconv.ParseInt(s, 10, strconv.IntSize); err == nil {
		return int(n), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) ||
		f < math.MinInt || f >= math.MaxInt {
		return 0, strconv.ErrRange
	}
	return int(f), nil
}

// Text is a string that also accepts a JSON number, kept as written.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("value is not a valid string: %s", data)
	}
	*t = Text(n.String())
	return nil
}

func (t Text) String() string { return string(t) }
