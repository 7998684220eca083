package toolguard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind is the JSON type of a Value.
type Kind int

// JSON kinds. The zero Value has KindNull.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "null"
	}
}

// Value is a decoded JSON value of any kind. Numbers keep their literal text so that
// integers and floats stay distinguishable.
type Value struct {
	kind  Kind
	b     bool
	num   json.Number
	str   string
	items []Value
	obj   *Payload
}

// NullValue returns the JSON null.
func NullValue() Value { return Value{} }

// BoolValue returns a JSON boolean.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// NumberValue returns a JSON number with the given literal text.
func NumberValue(n json.Number) Value { return Value{kind: KindNumber, num: n} }

// IntValue returns a JSON integer.
func IntValue(i int) Value { return NumberValue(json.Number(fmt.Sprint(i))) }

// StringValue returns a JSON string.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// ArrayValue returns a JSON array.
func ArrayValue(items ...Value) Value { return Value{kind: KindArray, items: items} }

// ObjectValue returns a JSON object. A nil payload is treated as {}.
func ObjectValue(p *Payload) Value {
	if p == nil {
		p = NewPayload()
	}
	return Value{kind: KindObject, obj: p}
}

// Kind returns the JSON kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the JSON null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string and true if v is a JSON string.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsBool returns the boolean and true if v is a JSON boolean.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the number literal and true if v is a JSON number.
func (v Value) AsNumber() (json.Number, bool) { return v.num, v.kind == KindNumber }

// Items returns the elements of an array value, or nil.
func (v Value) Items() []Value { return v.items }

// Object returns the payload of an object value, or nil.
func (v Value) Object() *Payload { return v.obj }

// Text returns the string form of v: strings verbatim, anything else as its Literal.
func (v Value) Text() string {
	if v.kind == KindString {
		return v.str
	}
	return v.Literal()
}

// Literal returns the diagnostic form of v: strings quoted, booleans True/False,
// null None, numbers as written, arrays [a, b] and objects {'k': v}.
func (v Value) Literal() string {
	var b strings.Builder
	v.writeLiteral(&b)
	return b.String()
}

func (v Value) writeLiteral(b *strings.Builder) {
	switch v.kind {
	case KindNull:
		b.WriteString("None")
	case KindBool:
		if v.b {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case KindNumber:
		b.WriteString(string(v.num))
	case KindString:
		b.WriteString(quoteLiteral(v.str))
	case KindArray:
		b.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				b.WriteString(", ")
			}
			item.writeLiteral(b)
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		if v.obj != nil && v.obj.fields != nil {
			for pair, first := v.obj.fields.Oldest(), true; pair != nil; pair, first = pair.Next(), false {
				if !first {
					b.WriteString(", ")
				}
				b.WriteString(quoteLiteral(pair.Key))
				b.WriteString(": ")
				pair.Value.writeLiteral(b)
			}
		}
		b.WriteByte('}')
	}
}

// quoteLiteral single-quotes s, switching to double quotes when s contains a single
// quote and no double quote.
func quoteLiteral(s string) string {
	q := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var b strings.Builder
	b.WriteRune(q)
	for _, r := range s {
		switch {
		case r == q || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(q)
	return b.String()
}

// MarshalJSON encodes v back to JSON, preserving object key order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		return []byte(v.num), nil
	case KindString:
		return json.Marshal(v.str)
	case KindArray:
		if v.items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.items)
	case KindObject:
		return v.obj.MarshalJSON()
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes any JSON value into v. Object key order is preserved.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("unexpected end of JSON input")
	}
	switch data[0] {
	case 'n':
		if string(data) != "null" {
			return fmt.Errorf("invalid literal %q", data)
		}
		*v = NullValue()
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		items := make([]Value, len(raw))
		for i, r := range raw {
			if err := items[i].UnmarshalJSON(r); err != nil {
				return err
			}
		}
		*v = ArrayValue(items...)
	case '{':
		p := NewPayload()
		if err := p.UnmarshalJSON(data); err != nil {
			return err
		}
		*v = ObjectValue(p)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = NumberValue(n)
	}
	return nil
}

// Payload is an untrusted tool call: string keys mapped to arbitrary JSON values, kept in
// document order. The zero value and nil are both usable as an empty payload.
type Payload struct {
	fields *orderedmap.OrderedMap[string, Value]
}

// NewPayload returns an empty payload.
func NewPayload() *Payload {
	return &Payload{fields: orderedmap.New[string, Value]()}
}

// ParsePayload decodes JSON text into a Payload. Syntax errors and non-object documents
// are reported as *ClientError wrapping ErrInvalidJSON or ErrNotObject; their message
// reads "Invalid JSON: ...".
func ParsePayload(data []byte) (*Payload, error) {
	trimmed := bytes.TrimSpace(data)
	var probe json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, wrapJSONParseError(err)
	}
	if trimmed[0] != '{' {
		return nil, &ClientError{
			Reason: "payload must be a JSON object, got " + kindOfLiteral(trimmed[0]).String(),
			Err:    ErrNotObject,
		}
	}
	p := NewPayload()
	if err := p.UnmarshalJSON(trimmed); err != nil {
		return nil, wrapJSONParseError(err)
	}
	return p, nil
}

func kindOfLiteral(c byte) Kind {
	switch c {
	case 'n':
		return KindNull
	case 't', 'f':
		return KindBool
	case '"':
		return KindString
	case '[':
		return KindArray
	case '{':
		return KindObject
	default:
		return KindNumber
	}
}

// Len returns the number of keys.
func (p *Payload) Len() int {
	if p == nil || p.fields == nil {
		return 0
	}
	return p.fields.Len()
}

// Get returns the value stored under key. An explicit null is present with KindNull.
func (p *Payload) Get(key string) (Value, bool) {
	if p == nil || p.fields == nil {
		return Value{}, false
	}
	return p.fields.Get(key)
}

// Set stores v under key, keeping the key's original position if it already exists.
// It returns p for chaining.
func (p *Payload) Set(key string, v Value) *Payload {
	if p.fields == nil {
		p.fields = orderedmap.New[string, Value]()
	}
	p.fields.Set(key, v)
	return p
}

// Keys returns the keys in document order.
func (p *Payload) Keys() []string {
	if p == nil || p.fields == nil {
		return nil
	}
	keys := make([]string, 0, p.fields.Len())
	for pair := p.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// MarshalJSON encodes p as a JSON object in key order.
func (p *Payload) MarshalJSON() ([]byte, error) {
	if p == nil || p.fields == nil {
		return []byte("{}"), nil
	}
	return p.fields.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object into p, replacing its contents.
func (p *Payload) UnmarshalJSON(data []byte) error {
	fields := orderedmap.New[string, Value]()
	if err := fields.UnmarshalJSON(data); err != nil {
		return err
	}
	p.fields = fields
	return nil
}
