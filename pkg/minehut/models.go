package minehut

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// DefaultAddonCategory is reported for add-ons that carry no category
const DefaultAddonCategory = "Plugin"

// Server is a Minehut server as returned by the server endpoint
type Server struct {
	ID               string          `json:"_id"`
	Name             string          `json:"name"`
	Visibility       bool            `json:"visibility"`
	Online           bool            `json:"online"`
	Suspended        bool            `json:"suspended"`
	MOTD             string          `json:"motd"`
	LastOnline       Millis          `json:"last_online"`
	CreatedAt        Millis          `json:"creation"`
	PlayerCount      int             `json:"playerCount"`
	MaxPlayers       int             `json:"maxPlayers"`
	CreditsPerDay    float64         `json:"credits_per_day"`
	Categories       []string        `json:"categories"`
	Properties       Properties      `json:"server_properties"`
	ActiveIconID     string          `json:"active_icon"`
	InstalledContent []InstalledItem `json:"installed_content"`
}

// InstalledItem references an add-on installed on a server
type InstalledItem struct {
	ContentID string `json:"content_id"`
}

// Icon is a purchasable server icon
type Icon struct {
	ID          string `json:"_id"`
	DisplayName string `json:"display_name"`
	IconName    string `json:"icon_name"`
	Price       int    `json:"price"`
	Rank        string `json:"rank"`
	Available   bool   `json:"available"`
	Disabled    bool   `json:"disabled"`
}

// Addon is an entry of the add-on catalogue
type Addon struct {
	ID               string `json:"_id"`
	Title            string `json:"title"`
	ShortDescription string `json:"short_description"`
	Category         string `json:"category"`
}

// Millis is a timestamp encoded as epoch milliseconds
type Millis struct {
	time.Time
}

// UnmarshalJSON accepts a number of milliseconds or null
func (m *Millis) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		m.Time = time.Time{}
		return nil
	}

	ms, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid millisecond timestamp %s: %w", data, err)
	}
	if ms == 0 {
		m.Time = time.Time{}
		return nil
	}
	m.Time = time.UnixMilli(int64(ms))
	return nil
}

// MarshalJSON writes the timestamp back as epoch milliseconds
func (m Millis) MarshalJSON() ([]byte, error) {
	if m.IsZero() {
		return []byte("0"), nil
	}
	return []byte(strconv.FormatInt(m.UnixMilli(), 10)), nil
}

// Property is a single server.properties entry. Value holds a bool, a string, a
// json.Number, nil, or the raw JSON of nested values.
type Property struct {
	Key   string
	Value interface{}
}

// Properties keeps server properties in document order
type Properties []Property

// UnmarshalJSON decodes a JSON object while preserving its key order
func (p *Properties) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("server properties: expected object, got %v", tok)
	}

	var props Properties
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("server properties: unexpected key %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("server properties: value of %q: %w", key, err)
		}

		value, err := decodePropertyValue(raw)
		if err != nil {
			return fmt.Errorf("server properties: value of %q: %w", key, err)
		}
		props = append(props, Property{Key: key, Value: value})
	}

	*p = props
	return nil
}

func decodePropertyValue(raw json.RawMessage) (interface{}, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return nil, err
		}
		return json.RawMessage(buf.Bytes()), nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

// Get returns the value stored under key
func (p Properties) Get(key string) (interface{}, bool) {
	for _, prop := range p {
		if prop.Key == key {
			return prop.Value, true
		}
	}
	return nil, false
}
