package standup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar date without a time component, always normalized to
// midnight UTC.
type Day struct {
	time.Time
}

func DayOf(t time.Time) Day {
	y, m, d := t.UTC().Date()
	return Day{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return Day{t}, nil
}

func (d Day) String() string {
	return d.Format(dayLayout)
}

func (d Day) Equal(o Day) bool {
	return d.Time.Equal(o.Time)
}

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Day) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
